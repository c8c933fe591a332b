package echoapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/coursemaster/core"
	"github.com/trezcool/coursemaster/core/course"
	"github.com/trezcool/coursemaster/core/enrollment"
)

type enrollmentApi struct {
	svc      *enrollment.Service
	validate *validator.Validate
}

func registerEnrollmentAPI(g *echo.Group, deps ServerDeps) {
	api := enrollmentApi{
		svc:      deps.EnrollmentSvc,
		validate: deps.Validate,
	}

	g.POST("/enroll/manual", api.enroll)
	g.GET("/check-enrollment", api.checkEnrollment)
	g.GET("/enrollments", api.query)
	g.PUT("/enrollment/approve/:id", api.approve)
	g.PUT("/enrollment/block/:id", api.block)
	g.PUT("/enrollment/unblock/:id", api.unblock)
	g.GET("/enrollments/user/:email", api.statsForUser)
	g.GET("/user/enrolled-courses/:email", api.enrolledCourses)
	g.GET("/user/enrollments-with-courses/:email", api.enrollmentsWithCourses)
	g.PUT("/course/complete/:enrollId", api.completeCourse)
}

// Handlers

func (api *enrollmentApi) enroll(ctx echo.Context) error {
	var data enrollment.NewEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEnrollment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	enr, err := api.svc.Enroll(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == enrollment.ErrAlreadyEnrolled {
			return core.NewValidationError(enrollment.ErrAlreadyEnrolled)
		}
		return errors.Wrap(err, "enrolling")
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *enrollmentApi) checkEnrollment(ctx echo.Context) error {
	email := ctx.QueryParam("email")
	courseID := ctx.QueryParam("courseId")

	exists, err := api.svc.Exists(ctx.Request().Context(), email, courseID)
	if err != nil {
		return errors.Wrap(err, "checking enrollment")
	}
	return ctx.JSON(http.StatusOK, ExistsResponse{Exists: exists})
}

func (api *enrollmentApi) query(ctx echo.Context) error {
	enrs, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying enrollments")
	}
	if enrs == nil {
		enrs = []enrollment.Enrollment{}
	}
	return ctx.JSON(http.StatusOK, EnrollmentListResponse{Total: len(enrs), Enrollments: enrs})
}

func (api *enrollmentApi) approve(ctx echo.Context) error {
	var data ApproveRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ApproveRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	enr, err := api.svc.Approve(ctx.Request().Context(), ctx.Param("id"), data.AdminTransactionID)
	if err != nil {
		if errors.Cause(err) == enrollment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "approving enrollment")
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *enrollmentApi) block(ctx echo.Context) error {
	return api.transition(ctx, api.svc.Block, "blocking enrollment")
}

func (api *enrollmentApi) unblock(ctx echo.Context) error {
	return api.transition(ctx, api.svc.Unblock, "unblocking enrollment")
}

func (api *enrollmentApi) transition(
	ctx echo.Context,
	op func(context.Context, string) (enrollment.Enrollment, error),
	msg string,
) error {
	enr, err := op(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == enrollment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, msg)
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *enrollmentApi) statsForUser(ctx echo.Context) error {
	stats, err := api.svc.StatsForUser(ctx.Request().Context(), ctx.Param("email"))
	if err != nil {
		return errors.Wrap(err, "aggregating enrollments")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *enrollmentApi) enrolledCourses(ctx echo.Context) error {
	courses, err := api.svc.EnrolledCourses(ctx.Request().Context(), ctx.Param("email"))
	if err != nil {
		return errors.Wrap(err, "querying enrolled courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, CourseListResponse{Total: len(courses), Courses: courses})
}

func (api *enrollmentApi) enrollmentsWithCourses(ctx echo.Context) error {
	combined, err := api.svc.ApprovedCoursesWithDetail(ctx.Request().Context(), ctx.Param("email"))
	if err != nil {
		return errors.Wrap(err, "querying enrollments with courses")
	}
	if combined == nil {
		combined = []enrollment.CourseDetail{}
	}
	return ctx.JSON(http.StatusOK, CombinedListResponse{Total: len(combined), Combined: combined})
}

func (api *enrollmentApi) completeCourse(ctx echo.Context) error {
	enr, err := api.svc.CompleteCourse(ctx.Request().Context(), ctx.Param("enrollId"))
	if err != nil {
		if errors.Cause(err) == enrollment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "completing course")
	}
	return ctx.JSON(http.StatusOK, enr)
}

type (
	ApproveRequest struct {
		AdminTransactionID string `json:"admin_transaction_id" validate:"required"`
	}

	ExistsResponse struct {
		Exists bool `json:"exists"`
	}

	EnrollmentListResponse struct {
		Total       int                     `json:"total"`
		Enrollments []enrollment.Enrollment `json:"enrollments"`
	}

	CombinedListResponse struct {
		Total    int                       `json:"total"`
		Combined []enrollment.CourseDetail `json:"combined"`
	}
)

func (ar *ApproveRequest) Validate(validate *validator.Validate) error {
	ar.AdminTransactionID = core.CleanString(ar.AdminTransactionID)
	return validate.Struct(ar)
}
