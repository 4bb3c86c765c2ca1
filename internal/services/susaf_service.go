package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/EricRode/EcoScrum/internal/constants"
	"github.com/EricRode/EcoScrum/internal/models"
	"github.com/EricRode/EcoScrum/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrSusafNotConfigured = errors.New("SusAF integration is not configured")
	ErrSusafTokenMissing  = errors.New("no SusAF token stored for this project")
	ErrSusafUpstream      = errors.New("SusAF upstream request failed")
)

// SusafService talks to the external SusAF assessment service. The upstream
// payloads are opaque beyond the fields parsed here.
type SusafService struct {
	baseURL    string
	httpClient *http.Client
	effectRepo repository.EffectRepository
}

// NewSusafService creates a new SusafService. An empty baseURL disables the
// integration.
func NewSusafService(baseURL string, effectRepo repository.EffectRepository) *SusafService {
	return &SusafService{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: constants.SusafRequestTimeoutSeconds * time.Second,
		},
		effectRepo: effectRepo,
	}
}

// Enabled reports whether the upstream is configured.
func (s *SusafService) Enabled() bool {
	return s.baseURL != ""
}

// GetToken returns the project's stored SusAF API token.
func (s *SusafService) GetToken(projectID uint64) (*models.SusafToken, error) {
	token, err := s.effectRepo.GetToken(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSusafTokenMissing
		}
		return nil, fmt.Errorf("failed to load SusAF token: %w", err)
	}
	return token, nil
}

// SetToken stores the project's SusAF API token.
func (s *SusafService) SetToken(projectID uint64, token string) error {
	if err := s.effectRepo.SaveToken(projectID, token); err != nil {
		return fmt.Errorf("failed to save SusAF token: %w", err)
	}
	return nil
}

// ListEffects lists the project's locally cached effects.
func (s *SusafService) ListEffects(projectID uint64) ([]models.SusafEffect, error) {
	effects, err := s.effectRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list effects: %w", err)
	}
	return effects, nil
}

type susafEffectPayload struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type susafEffectsResponse struct {
	Effects []susafEffectPayload `json:"effects"`
}

// SyncEffects pulls the project's effects from the upstream and refreshes the
// local cache.
func (s *SusafService) SyncEffects(ctx context.Context, projectID uint64) ([]models.SusafEffect, error) {
	var parsed susafEffectsResponse
	if err := s.fetch(ctx, projectID, "/api/effects", &parsed); err != nil {
		return nil, err
	}

	effects := make([]models.SusafEffect, 0, len(parsed.Effects))
	for _, p := range parsed.Effects {
		if p.ID == "" || p.Title == "" {
			continue
		}
		effects = append(effects, models.SusafEffect{
			ExternalID:  p.ID,
			Category:    models.SusafCategory(p.Category),
			Title:       p.Title,
			Description: p.Description,
		})
	}

	if err := s.effectRepo.UpsertEffects(projectID, effects); err != nil {
		return nil, fmt.Errorf("failed to cache effects: %w", err)
	}

	return s.effectRepo.ListByProject(projectID)
}

// Recommendation is an upstream improvement suggestion, passed through as-is.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type susafRecommendationsResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
}

// SyncRecommendations pulls the project's recommendations from the upstream.
func (s *SusafService) SyncRecommendations(ctx context.Context, projectID uint64) ([]Recommendation, error) {
	var parsed susafRecommendationsResponse
	if err := s.fetch(ctx, projectID, "/api/recommendations", &parsed); err != nil {
		return nil, err
	}
	return parsed.Recommendations, nil
}

func (s *SusafService) fetch(ctx context.Context, projectID uint64, path string, out interface{}) error {
	if !s.Enabled() {
		return ErrSusafNotConfigured
	}

	token, err := s.GetToken(projectID)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build SusAF request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSusafUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrSusafUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: invalid response body: %v", ErrSusafUpstream, err)
	}
	return nil
}
