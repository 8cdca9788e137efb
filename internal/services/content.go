package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/templegit9/contracker-single/internal/models"
	"github.com/templegit9/contracker-single/internal/platforms"
	"github.com/templegit9/contracker-single/internal/repository"
	"github.com/templegit9/contracker-single/pkg/utils"
)

// MetadataFetcher resolves platform content ids to metadata.
// *platforms.Fetcher is the production implementation.
type MetadataFetcher interface {
	Fetch(ctx context.Context, platform models.Platform, contentID string, cfg models.APIConfig) (models.ContentInfo, error)
}

// ContentService owns the per-user content collections and engagement
// history. Every operation is load-modify-persist over the KV store;
// in-memory state never outlives the call, so the URL index is rebuilt
// from the collection on each load and cannot drift from it.
type ContentService struct {
	store   repository.Store
	fetcher MetadataFetcher
	logger  *slog.Logger
	randInt func(int) int // injectable for deterministic tests
}

func NewContentService(store repository.Store, fetcher MetadataFetcher, logger *slog.Logger) *ContentService {
	return &ContentService{
		store:   store,
		fetcher: fetcher,
		logger:  logger,
		randInt: rand.Intn,
	}
}

// ContentInput is the payload for creating a content item.
type ContentInput struct {
	URL           string
	Platform      models.Platform
	Name          string
	Description   string
	PublishedDate string
	Duration      string
}

// ContentUpdate is a partial update; nil fields keep their value.
type ContentUpdate struct {
	URL           *string
	Platform      *models.Platform
	Name          *string
	Description   *string
	PublishedDate *string
	Duration      *string
}

func (s *ContentService) loadItems(ctx context.Context, userID string) ([]models.ContentItem, error) {
	var items []models.ContentItem
	if err := s.loadJSON(ctx, repository.UserContentKey(userID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *ContentService) saveItems(ctx context.Context, userID string, items []models.ContentItem) error {
	return s.saveJSON(ctx, repository.UserContentKey(userID), items)
}

func (s *ContentService) loadSnapshots(ctx context.Context, userID string) ([]models.EngagementSnapshot, error) {
	var snaps []models.EngagementSnapshot
	if err := s.loadJSON(ctx, repository.UserEngagementKey(userID), &snaps); err != nil {
		return nil, err
	}
	return snaps, nil
}

func (s *ContentService) saveSnapshots(ctx context.Context, userID string, snaps []models.EngagementSnapshot) error {
	return s.saveJSON(ctx, repository.UserEngagementKey(userID), snaps)
}

func (s *ContentService) loadJSON(ctx context.Context, key string, out any) error {
	raw, found, err := s.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("corrupt record %q: %w", key, err)
	}
	return nil
}

func (s *ContentService) saveJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, key, raw)
}

// urlIndex maps normalized URL -> content id. The collection is the
// source of truth; the index is derived on demand.
func urlIndex(items []models.ContentItem) map[string]string {
	idx := make(map[string]string, len(items))
	for _, item := range items {
		idx[utils.NormalizeURL(item.URL)] = item.ID
	}
	return idx
}

// AddContentItem appends a new item after normalized-URL dedup, then
// opportunistically records a first engagement snapshot. A failed
// snapshot fetch never fails the add. The URL is stored in normalized
// form, so it never carries a scheme.
func (s *ContentService) AddContentItem(ctx context.Context, userID string, input ContentInput) (models.ContentItem, error) {
	if userID == "" {
		return models.ContentItem{}, models.ErrNotAuthenticated
	}
	if !input.Platform.Valid() {
		return models.ContentItem{}, fmt.Errorf("%w: %s", models.ErrUnknownPlatform, input.Platform)
	}

	items, err := s.loadItems(ctx, userID)
	if err != nil {
		return models.ContentItem{}, err
	}

	normalized := utils.NormalizeURL(input.URL)
	if _, exists := urlIndex(items)[normalized]; exists {
		return models.ContentItem{}, models.ErrDuplicateURL
	}

	item := models.ContentItem{
		ID:            utils.NewID(),
		URL:           normalized,
		Platform:      input.Platform,
		Name:          input.Name,
		Description:   input.Description,
		PublishedDate: input.PublishedDate,
		Duration:      input.Duration,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.saveItems(ctx, userID, append(items, item)); err != nil {
		return models.ContentItem{}, err
	}

	if err := s.RefreshEngagement(ctx, userID, item); err != nil {
		s.logger.Warn("initial engagement fetch failed", "content_id", item.ID, "error", err)
	}

	return item, nil
}

// UpdateContentItem merges non-nil fields into the stored item and
// stamps LastUpdated.
func (s *ContentService) UpdateContentItem(ctx context.Context, userID, id string, update ContentUpdate) (models.ContentItem, error) {
	if userID == "" {
		return models.ContentItem{}, models.ErrNotAuthenticated
	}
	items, err := s.loadItems(ctx, userID)
	if err != nil {
		return models.ContentItem{}, err
	}

	for i := range items {
		if items[i].ID != id {
			continue
		}
		if update.URL != nil {
			items[i].URL = utils.NormalizeURL(*update.URL)
		}
		if update.Platform != nil {
			if !update.Platform.Valid() {
				return models.ContentItem{}, fmt.Errorf("%w: %s", models.ErrUnknownPlatform, *update.Platform)
			}
			items[i].Platform = *update.Platform
		}
		if update.Name != nil {
			items[i].Name = *update.Name
		}
		if update.Description != nil {
			items[i].Description = *update.Description
		}
		if update.PublishedDate != nil {
			items[i].PublishedDate = *update.PublishedDate
		}
		if update.Duration != nil {
			items[i].Duration = *update.Duration
		}
		now := time.Now().UTC()
		items[i].LastUpdated = &now

		if err := s.saveItems(ctx, userID, items); err != nil {
			return models.ContentItem{}, err
		}
		return items[i], nil
	}
	return models.ContentItem{}, models.ErrNotFound
}

// DeleteContentItem removes an item and cascades to every snapshot
// recorded under its normalized URL. Deleting an absent id is a no-op.
func (s *ContentService) DeleteContentItem(ctx context.Context, userID, id string) error {
	if userID == "" {
		return models.ErrNotAuthenticated
	}
	items, err := s.loadItems(ctx, userID)
	if err != nil {
		return err
	}

	var removed *models.ContentItem
	kept := make([]models.ContentItem, 0, len(items))
	for _, item := range items {
		if item.ID == id {
			it := item
			removed = &it
			continue
		}
		kept = append(kept, item)
	}
	if removed == nil {
		return nil
	}

	if err := s.saveItems(ctx, userID, kept); err != nil {
		return err
	}

	snaps, err := s.loadSnapshots(ctx, userID)
	if err != nil {
		return err
	}
	norm := utils.NormalizeURL(removed.URL)
	keptSnaps := make([]models.EngagementSnapshot, 0, len(snaps))
	for _, snap := range snaps {
		if snap.ContentURL != norm {
			keptSnaps = append(keptSnaps, snap)
		}
	}
	return s.saveSnapshots(ctx, userID, keptSnaps)
}

// ListContent returns the user's collection.
func (s *ContentService) ListContent(ctx context.Context, userID string) ([]models.ContentItem, error) {
	if userID == "" {
		return nil, models.ErrNotAuthenticated
	}
	items, err := s.loadItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.ContentItem{}
	}
	return items, nil
}

// GetContentItem resolves a content id.
func (s *ContentService) GetContentItem(ctx context.Context, userID, id string) (models.ContentItem, error) {
	items, err := s.ListContent(ctx, userID)
	if err != nil {
		return models.ContentItem{}, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return models.ContentItem{}, models.ErrNotFound
}

// FetchContentInfo looks up platform metadata for a URL using the
// user's stored credentials. Fetcher failures propagate unchanged.
func (s *ContentService) FetchContentInfo(ctx context.Context, userID, rawURL string, platform models.Platform) (models.ContentInfo, error) {
	if userID == "" {
		return models.ContentInfo{}, models.ErrNotAuthenticated
	}
	cfg, err := s.GetAPIConfig(ctx, userID)
	if err != nil {
		return models.ContentInfo{}, err
	}
	contentID := platforms.ExtractContentID(rawURL, platform)
	return s.fetcher.Fetch(ctx, platform, contentID, cfg)
}

// RefreshEngagement appends one snapshot per target item (default: the
// whole collection) under a single shared timestamp. Baselines come
// from the latest prior snapshot of each URL, or fresh randomized
// values when none exists. This is simulated analytics; it exists to
// feed the dashboard.
func (s *ContentService) RefreshEngagement(ctx context.Context, userID string, targets ...models.ContentItem) error {
	if userID == "" {
		return models.ErrNotAuthenticated
	}
	items := targets
	if len(items) == 0 {
		var err error
		items, err = s.loadItems(ctx, userID)
		if err != nil {
			return err
		}
	}
	if len(items) == 0 {
		return nil
	}

	snaps, err := s.loadSnapshots(ctx, userID)
	if err != nil {
		return err
	}

	ts := time.Now().UTC()
	for _, item := range items {
		prior := latestSnapshot(snaps, utils.NormalizeURL(item.URL))
		snaps = append(snaps, s.simulateSnapshot(prior, item, ts))
	}
	return s.saveSnapshots(ctx, userID, snaps)
}

// RefreshItem refreshes engagement for a single content id.
func (s *ContentService) RefreshItem(ctx context.Context, userID, id string) error {
	item, err := s.GetContentItem(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.RefreshEngagement(ctx, userID, item)
}

func latestSnapshot(snaps []models.EngagementSnapshot, normalizedURL string) *models.EngagementSnapshot {
	var latest *models.EngagementSnapshot
	for i := range snaps {
		if snaps[i].ContentURL != normalizedURL {
			continue
		}
		if latest == nil || snaps[i].Timestamp.After(latest.Timestamp) {
			latest = &snaps[i]
		}
	}
	return latest
}

func (s *ContentService) simulateSnapshot(prior *models.EngagementSnapshot, item models.ContentItem, ts time.Time) models.EngagementSnapshot {
	var baseViews, baseLikes, baseComments int
	var baseWatch float64
	if prior != nil {
		baseViews = prior.Views
		baseLikes = prior.Likes
		baseComments = prior.Comments
		baseWatch = prior.WatchTimeHours
	} else {
		baseViews = s.randInt(1000)
		baseLikes = baseViews / 10
		baseComments = baseViews / 50
		baseWatch = float64(baseViews) * 0.05
	}

	return models.EngagementSnapshot{
		ContentURL:     utils.NormalizeURL(item.URL),
		Platform:       item.Platform,
		Views:          baseViews + s.randInt(50),
		Likes:          baseLikes + s.randInt(5),
		Comments:       baseComments + s.randInt(2),
		WatchTimeHours: baseWatch + float64(s.randInt(100))/100,
		Timestamp:      ts,
	}
}

// ListSnapshots returns the full engagement history.
func (s *ContentService) ListSnapshots(ctx context.Context, userID string) ([]models.EngagementSnapshot, error) {
	if userID == "" {
		return nil, models.ErrNotAuthenticated
	}
	snaps, err := s.loadSnapshots(ctx, userID)
	if err != nil {
		return nil, err
	}
	if snaps == nil {
		snaps = []models.EngagementSnapshot{}
	}
	return snaps, nil
}

// GetAPIConfig returns the user's platform credentials, zero-valued
// when never saved.
func (s *ContentService) GetAPIConfig(ctx context.Context, userID string) (models.APIConfig, error) {
	if userID == "" {
		return models.APIConfig{}, models.ErrNotAuthenticated
	}
	var cfg models.APIConfig
	if err := s.loadJSON(ctx, repository.UserAPIConfigKey(userID), &cfg); err != nil {
		return models.APIConfig{}, err
	}
	return cfg, nil
}

// UpdateAPIConfig stores the credentials with replace-on-save
// semantics; there is no per-platform merge.
func (s *ContentService) UpdateAPIConfig(ctx context.Context, userID string, cfg models.APIConfig) error {
	if userID == "" {
		return models.ErrNotAuthenticated
	}
	return s.saveJSON(ctx, repository.UserAPIConfigKey(userID), cfg)
}

// ExportData assembles the downloadable per-user bundle.
func (s *ContentService) ExportData(ctx context.Context, user models.PublicUser) (models.ExportBundle, error) {
	items, err := s.ListContent(ctx, user.ID)
	if err != nil {
		return models.ExportBundle{}, err
	}
	snaps, err := s.ListSnapshots(ctx, user.ID)
	if err != nil {
		return models.ExportBundle{}, err
	}
	cfg, err := s.GetAPIConfig(ctx, user.ID)
	if err != nil {
		return models.ExportBundle{}, err
	}

	return models.ExportBundle{
		ContentItems:   items,
		EngagementData: snaps,
		APIConfig:      &cfg,
		ExportDate:     time.Now().UTC(),
		User:           models.ExportUser{ID: user.ID, Name: user.Name, Email: user.Email},
	}, nil
}

// ImportData replaces the user's state wholesale with the bundle
// contents. Both contentItems and engagementData must be present;
// apiConfig is optional.
func (s *ContentService) ImportData(ctx context.Context, userID string, raw []byte) error {
	if userID == "" {
		return models.ErrNotAuthenticated
	}

	var bundle struct {
		ContentItems   *[]models.ContentItem        `json:"contentItems"`
		EngagementData *[]models.EngagementSnapshot `json:"engagementData"`
		APIConfig      *models.APIConfig            `json:"apiConfig"`
	}
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidFormat, err)
	}
	if bundle.ContentItems == nil || bundle.EngagementData == nil {
		return models.ErrInvalidFormat
	}

	if err := s.saveItems(ctx, userID, *bundle.ContentItems); err != nil {
		return err
	}
	if err := s.saveSnapshots(ctx, userID, *bundle.EngagementData); err != nil {
		return err
	}
	if bundle.APIConfig != nil {
		if err := s.UpdateAPIConfig(ctx, userID, *bundle.APIConfig); err != nil {
			return err
		}
	}
	return nil
}

// GetStats computes the dashboard aggregate from the latest snapshot
// of every URL. TopPlatform ties resolve in canonical platform order;
// all-zero buckets yield "none".
func (s *ContentService) GetStats(ctx context.Context, userID string) (models.Stats, error) {
	items, err := s.ListContent(ctx, userID)
	if err != nil {
		return models.Stats{}, err
	}
	snaps, err := s.loadSnapshots(ctx, userID)
	if err != nil {
		return models.Stats{}, err
	}

	latestByURL := make(map[string]models.EngagementSnapshot)
	for _, snap := range snaps {
		cur, ok := latestByURL[snap.ContentURL]
		if !ok || snap.Timestamp.After(cur.Timestamp) {
			latestByURL[snap.ContentURL] = snap
		}
	}

	stats := models.Stats{
		TotalContent:          len(items),
		TopPlatform:           "none",
		EngagementsByPlatform: make(map[models.Platform]int, 3),
	}
	for _, p := range models.AllPlatforms() {
		stats.EngagementsByPlatform[p] = 0
	}

	for _, snap := range latestByURL {
		stats.TotalViews += snap.Views
		stats.TotalLikes += snap.Likes
		stats.TotalComments += snap.Comments
		if _, known := stats.EngagementsByPlatform[snap.Platform]; known {
			stats.EngagementsByPlatform[snap.Platform] += snap.Views
		}
	}

	maxViews := 0
	for _, p := range models.AllPlatforms() {
		if v := stats.EngagementsByPlatform[p]; v > maxViews {
			maxViews = v
			stats.TopPlatform = string(p)
		}
	}

	return stats, nil
}
