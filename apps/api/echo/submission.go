package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/coursemaster/core/submission"
)

type submissionApi struct {
	svc      *submission.Service
	validate *validator.Validate
}

func registerSubmissionAPI(g *echo.Group, deps ServerDeps) {
	api := submissionApi{
		svc:      deps.SubmissionSvc,
		validate: deps.Validate,
	}

	g.POST("/assignment/submit", api.submit)
	g.GET("/assignment/submissions", api.query)
	g.PUT("/assignment/complete/:id", api.complete)
}

// Handlers

func (api *submissionApi) submit(ctx echo.Context) error {
	var data submission.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.svc.Submit(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "submitting assignment")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *submissionApi) query(ctx echo.Context) error {
	subs, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	if subs == nil {
		subs = []submission.Submission{}
	}
	return ctx.JSON(http.StatusOK, SubmissionListResponse{Total: len(subs), Submissions: subs})
}

func (api *submissionApi) complete(ctx echo.Context) error {
	sub, err := api.svc.MarkComplete(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == submission.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "completing submission")
	}
	return ctx.JSON(http.StatusOK, sub)
}

type SubmissionListResponse struct {
	Total       int                     `json:"total"`
	Submissions []submission.Submission `json:"submissions"`
}
