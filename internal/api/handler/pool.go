package handler

import (
	"errors"
	"net/http"

	"neftit/internal/interfaces"
	"neftit/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupPool struct {
	container *do.Injector
}

func (gr *groupPool) GetAvailability(c echo.Context) error {
	ctx := c.Request().Context()

	projectID := c.Param("project")
	if projectID == "" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("missing project"), errorx.Validation))
	}

	servicePool, err := do.Invoke[*services.ServicePool](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	availability, err := servicePool.AvailabilityByRarity(ctx, projectID)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	return httpx.RestAbort(c, availability, nil)
}

func (gr *groupPool) GetContent(c echo.Context) error {
	ctx := c.Request().Context()

	cid := c.Param("cid")
	if cid == "" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("missing cid"), errorx.Validation))
	}

	resolver, err := do.Invoke[interfaces.ContentResolver](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	data, err := resolver.Resolve(ctx, cid)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	return c.Blob(http.StatusOK, http.DetectContentType(data), data)
}
