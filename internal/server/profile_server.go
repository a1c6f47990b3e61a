package server

import (
	"context"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"rent_radar/internal/domain"
	"rent_radar/internal/domain/entity"
	"rent_radar/pkg/errcodes"
	"rent_radar/pkg/httpx/reply"
	"rent_radar/pkg/httpx/req"
	"rent_radar/pkg/rest"
)

type housingService interface {
	Profiles() []entity.Profile
	Run(ctx context.Context, profileName string) (entity.ScoredBatch, error)
	Latest(ctx context.Context, profileName string) (entity.ScoredBatch, error)
}

type ProfileServer struct {
	housing housingService
}

func NewProfileServer(housing housingService) ProfileServer {
	return ProfileServer{
		housing: housing,
	}
}

func (s ProfileServer) getV1Profiles(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, lo.Map(s.housing.Profiles(), func(p entity.Profile, _ int) rest.Profile {
		return newRESTProfile(p)
	}))

	return nil
}

func (s ProfileServer) getV1ProfileDigest(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	batch, err := s.housing.Latest(ctx, chi.URLParam(r, "profile"))
	if err != nil {
		return fmt.Errorf("housing.Latest: %w", toFailure(err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTBatch(batch))

	return nil
}

func (s ProfileServer) postV1Run(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.RunRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	batch, err := s.housing.Run(ctx, request.Profile)
	if err != nil {
		return fmt.Errorf("housing.Run: %w", toFailure(err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTBatch(batch))

	return nil
}

// toFailure maps domain error codes onto failure kinds understood by reply.Error.
func toFailure(err error) error {
	code, ok := domain.GetCode(err)
	if !ok {
		return err
	}

	switch code {
	case errcodes.ProfileNotFound, errcodes.DigestNotFound:
		return failure.NewNotFoundError(
			err.Error(),
			failure.WithCode(code),
			failure.WithDescription(err.Error()),
		)
	case errcodes.DataQualityError, errcodes.SourceUnavailable:
		return failure.NewUnprocessableEntityError(
			err.Error(),
			failure.WithCode(code),
			failure.WithDescription(err.Error()),
		)
	default:
		return err
	}
}
