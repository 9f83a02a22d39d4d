package conversation

import (
	"context"
	"fmt"
	"log/slog"

	"wildlife-report-hub/backend/internal/geo"
	"wildlife-report-hub/backend/internal/geofence"
	"wildlife-report-hub/backend/internal/postback"
	sessiondomain "wildlife-report-hub/backend/internal/session/domain"
	settingsdomain "wildlife-report-hub/backend/internal/settings/domain"
)

// landmarkSearchRadiusMeters bounds the nearby-landmark lookup around the
// reported point.
const landmarkSearchRadiusMeters = 100

// LocationHandler takes the shared location, resolves it to an address,
// enforces the service-area geofence, and offers nearby landmarks.
type LocationHandler struct {
	geocoder geo.Geocoder
	logger   *slog.Logger
}

func NewLocationHandler(geocoder geo.Geocoder, logger *slog.Logger) *LocationHandler {
	return &LocationHandler{geocoder: geocoder, logger: logger}
}

func (h *LocationHandler) Handle(ctx context.Context, sess *sessiondomain.Session, in *Input, settings *settingsdomain.Settings) (*Response, error) {
	if in.Kind != KindLocation {
		return reprompt(locationPrompt()), nil
	}
	lat, lng := in.Latitude, in.Longitude

	address := in.Address
	var structured *geo.StructuredAddress
	if result, err := h.geocoder.ReverseGeocode(ctx, lat, lng); err != nil {
		h.logger.WarnContext(ctx, "reverse geocode failed",
			"user_id", sess.UserID, "error", err)
		if address == "" {
			address = fmt.Sprintf("%.6f, %.6f", lat, lng)
		}
	} else {
		address = result.Address
		structured = result.Structured
	}

	if check := geofence.New(settings.GeofenceAddressPrefix).Validate(address); !check.Allowed {
		return reprompt(geofenceDeniedPrompt(check.Prefix)), nil
	}

	sess.State.Latitude = &lat
	sess.State.Longitude = &lng
	sess.State.Address = address
	sess.State.StructuredAddress = structured

	// Landmark lookup is best effort; any failure moves straight on.
	landmarks, err := h.geocoder.SearchNearbyLandmarks(ctx, lat, lng, landmarkSearchRadiusMeters)
	if err != nil {
		h.logger.WarnContext(ctx, "landmark search failed",
			"user_id", sess.UserID, "error", err)
	}
	if len(landmarks) == 0 {
		sess.Step = sessiondomain.StepActionCategory
		return respond(actionCategoryPrompt()), nil
	}
	sess.State.NearbyLandmarks = landmarks
	sess.Step = sessiondomain.StepLandmarkSelection
	return respond(landmarkPrompt(landmarks)), nil
}

// LandmarkHandler records the picked landmark, or none.
type LandmarkHandler struct{}

func NewLandmarkHandler() *LandmarkHandler { return &LandmarkHandler{} }

func (h *LandmarkHandler) Handle(_ context.Context, sess *sessiondomain.Session, in *Input, _ *settingsdomain.Settings) (*Response, error) {
	switch in.Action() {
	case postback.ActionSelectLandmark:
		if lm, ok := landmarkByID(sess.State.NearbyLandmarks, in.Param(paramLandmark)); ok {
			sess.State.LandmarkName = lm.Name
		}
		sess.Step = sessiondomain.StepActionCategory
		return respond(actionCategoryPrompt()), nil
	case postback.ActionSkipLandmark:
		sess.Step = sessiondomain.StepActionCategory
		return respond(actionCategoryPrompt()), nil
	}
	return reprompt(landmarkPrompt(sess.State.NearbyLandmarks)), nil
}

// landmarkByID resolves a selected landmark id against the candidates
// offered at the location step.
func landmarkByID(landmarks []geo.Landmark, id string) (geo.Landmark, bool) {
	if id == "" {
		return geo.Landmark{}, false
	}
	for _, lm := range landmarks {
		if lm.ID == id {
			return lm, true
		}
	}
	return geo.Landmark{}, false
}
