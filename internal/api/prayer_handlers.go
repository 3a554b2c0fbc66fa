package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/reciteapp/recite-server/internal/service"
)

func (s *Server) registerPrayerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getPrayerTimes",
		Method:      http.MethodGet,
		Path:        "/api/v1/prayer/times",
		Summary:     "Get prayer times",
		Description: "Returns today's prayer schedule with the next prayer and qibla bearing",
		Tags:        []string{"Prayer"},
	}, s.handleGetPrayerTimes)

	huma.Register(s.api, huma.Operation{
		OperationID: "getQibla",
		Method:      http.MethodGet,
		Path:        "/api/v1/prayer/qibla",
		Summary:     "Get qibla bearing",
		Description: "Returns the compass bearing to the Kaaba for a location",
		Tags:        []string{"Prayer"},
	}, s.handleGetQibla)
}

// === DTOs ===

type LocationParams struct {
	Latitude  float64 `query:"latitude" minimum:"-90" maximum:"90" doc:"Latitude in degrees"`
	Longitude float64 `query:"longitude" minimum:"-180" maximum:"180" doc:"Longitude in degrees"`
}

type PrayerTimesOutput struct {
	Body service.PrayerTimesResult
}

type QiblaResponse struct {
	Direction float64 `json:"direction" doc:"Bearing from true north in degrees, [0, 360)"`
}

type QiblaOutput struct {
	Body QiblaResponse
}

// === Handlers ===

func (s *Server) handleGetPrayerTimes(ctx context.Context, input *LocationParams) (*PrayerTimesOutput, error) {
	result, err := s.services.Prayer.GetPrayerTimes(ctx, &service.LocationRequest{
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	})
	if err != nil {
		return nil, err
	}
	return &PrayerTimesOutput{Body: *result}, nil
}

func (s *Server) handleGetQibla(_ context.Context, input *LocationParams) (*QiblaOutput, error) {
	direction, err := s.services.Prayer.Qibla(&service.LocationRequest{
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	})
	if err != nil {
		return nil, err
	}
	return &QiblaOutput{Body: QiblaResponse{Direction: direction}}, nil
}
