package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/ZaguanLabs/teamtl"
	"github.com/ZaguanLabs/teamtl/httpapi"
)

type translator interface {
	LookupOrTranslate(ctx context.Context, entityID, targetLang string) (*teamtl.Result, error)
}

type handler struct {
	service translator
	logger  *slog.Logger
}

// Handle translates the team named by the teamId path parameter into the
// language query parameter.
func (h *handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	teamID := req.PathParameters["teamId"]
	lang := req.QueryStringParameters["language"]

	res, err := h.service.LookupOrTranslate(ctx, teamID, lang)
	if err != nil {
		status, body := httpapi.ErrorResponse(err)
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		h.logger.Log(ctx, level, "translation failed",
			"team_id", teamID,
			"language", lang,
			"kind", string(body.Error),
			"error", err,
		)
		return respond(status, body)
	}

	h.logger.Info("translation served",
		"team_id", teamID,
		"language", lang,
		"was_cached", res.WasCached,
	)
	if res.CacheWriteErr != nil {
		h.logger.Warn("translation not cached", "team_id", teamID, "language", lang, "error", res.CacheWriteErr)
	}
	return respond(http.StatusOK, res)
}

func respond(status int, v any) (events.APIGatewayV2HTTPResponse, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}
