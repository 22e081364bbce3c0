// Package store owns the menu analytics state. Every mutation goes through
// Reduce under a single lock, is persisted as one batch and then announced as
// a change event.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chrisdamba/menusight/internal/llm"
	"github.com/chrisdamba/menusight/internal/models"
	"github.com/chrisdamba/menusight/internal/repositories"
	"github.com/chrisdamba/menusight/internal/simulator"
	"github.com/chrisdamba/menusight/internal/upload"
)

const (
	defaultPersistTimeout      = 5 * time.Second
	defaultCollaboratorTimeout = 60 * time.Second
)

type EventPublisher interface {
	Publish(event models.ChangeEvent) error
}

type Options struct {
	KV       repositories.KeyValueStore
	Events   EventPublisher
	Advisor  llm.Advisor
	Parser   llm.Parser
	Insights llm.InsightGenerator
	Chatter  llm.Chatter
	Intake   *upload.Intake
	Env      Env

	PersistTimeout      time.Duration
	CollaboratorTimeout time.Duration
}

type Store struct {
	mu    sync.RWMutex
	state State
	env   Env

	kv       repositories.KeyValueStore
	events   EventPublisher
	advisors *llm.AdvisorChain
	parsers  *llm.ParserChain
	insights llm.InsightGenerator
	chatter  llm.Chatter
	intake   *upload.Intake

	persistTimeout      time.Duration
	collaboratorTimeout time.Duration

	remoteAdvisor  bool
	refreshSeq     atomic.Uint64
	appliedRefresh uint64
}

// ImplementResult reports what implementing a recommendation did.
type ImplementResult struct {
	Recommendation models.Recommendation `json:"recommendation"`
	Applied        bool                  `json:"applied"`
}

type RefreshResult struct {
	Recommendations []models.Recommendation `json:"recommendations"`
	Source          string                  `json:"source"`
}

type UploadResult struct {
	Format    string            `json:"format"`
	MenuItems []models.MenuItem `json:"menuItems"`
	Summary   string            `json:"summary"`
	Skipped   int               `json:"skipped"`
}

// New builds a store and loads its state from opts.KV, starting empty when the
// backend cannot be read. The heuristic advisor
// and the local parser always close their chains, so recommendations and
// uploads keep working without a language model.
func New(ctx context.Context, opts Options) (*Store, error) {
	env := opts.Env.withDefaults()
	s := &Store{
		env:                 env,
		kv:                  opts.KV,
		events:              opts.Events,
		insights:            opts.Insights,
		chatter:             opts.Chatter,
		intake:              opts.Intake,
		persistTimeout:      opts.PersistTimeout,
		collaboratorTimeout: opts.CollaboratorTimeout,
	}
	if s.kv == nil {
		s.kv = repositories.NewMemoryStore()
	}
	if s.intake == nil {
		s.intake = upload.NewIntake(models.UploadConfig{})
	}
	if s.persistTimeout <= 0 {
		s.persistTimeout = defaultPersistTimeout
	}
	if s.collaboratorTimeout <= 0 {
		s.collaboratorTimeout = defaultCollaboratorTimeout
	}

	var advisors []llm.Advisor
	if opts.Advisor != nil {
		advisors = append(advisors, opts.Advisor)
		s.remoteAdvisor = true
	}
	advisors = append(advisors, llm.NewHeuristicAdvisor(simulator.NewLockedRand(env.Seed)))
	s.advisors = llm.NewAdvisorChain(s.collaboratorTimeout, advisors...)

	var parsers []llm.Parser
	if opts.Parser != nil {
		parsers = append(parsers, opts.Parser)
	}
	parsers = append(parsers, llm.LocalParser{})
	s.parsers = llm.NewParserChain(s.collaboratorTimeout, parsers...)

	state, report, err := LoadSnapshot(ctx, s.kv, env)
	if err != nil {
		log.Printf("action: load | result: fail | fallback: empty state | error: %v", err)
		state = EmptyState()
	}
	if len(report.Corrupt) > 0 {
		log.Printf("action: load | result: partial | corrupt: %s | recomputed: %t", strings.Join(report.Corrupt, ","), report.Recomputed)
	}
	s.state = state
	return s, nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Store) Intake() *upload.Intake { return s.intake }

func (s *Store) AddItem(ctx context.Context, raw models.RawMenuItem) (models.MenuItem, error) {
	if err := s.intake.ValidateRawItem(raw); err != nil {
		return models.MenuItem{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	effect, err := s.commitLocked(ctx, AddItem{Raw: raw})
	if err != nil {
		return models.MenuItem{}, err
	}
	return *effect.Item, nil
}

func (s *Store) UpdateItem(ctx context.Context, id string, patch models.MenuItemPatch) (models.MenuItem, error) {
	if err := s.intake.ValidatePatch(patch); err != nil {
		return models.MenuItem{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	effect, err := s.commitLocked(ctx, UpdateItem{ID: id, Patch: patch})
	if err != nil {
		return models.MenuItem{}, err
	}
	return *effect.Item, nil
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.commitLocked(ctx, DeleteItem{ID: id})
	return err
}

// ReplaceAll swaps the whole menu. Every item must be valid; existing
// recommendations are kept.
func (s *Store) ReplaceAll(ctx context.Context, raws []models.RawMenuItem) ([]models.MenuItem, error) {
	for i, raw := range raws {
		if err := s.intake.ValidateRawItem(raw); err != nil {
			return nil, fmt.Errorf("menu item %d: %w", i, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.commitLocked(ctx, ReplaceAll{Raw: raws}); err != nil {
		return nil, err
	}
	return cloneSlice(s.state.MenuItems), nil
}

func (s *Store) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.commitLocked(ctx, ResetAll{})
	return err
}

func (s *Store) ImplementRecommendation(ctx context.Context, id string) (ImplementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rec models.Recommendation
	if i := s.state.findRecommendation(id); i >= 0 {
		rec = s.state.Recommendations[i]
	}
	effect, err := s.commitLocked(ctx, ImplementRecommendation{ID: id})
	if err != nil {
		return ImplementResult{}, err
	}
	return ImplementResult{Recommendation: rec, Applied: effect.Applied}, nil
}

// RefreshAnalysis asks the advisor chain for new recommendations. The chain
// runs without the lock held; a refresh that finishes after a newer one has
// already been applied is discarded with ErrSuperseded.
func (s *Store) RefreshAnalysis(ctx context.Context) (RefreshResult, error) {
	seq := s.refreshSeq.Add(1)
	snapshot := s.Snapshot()

	recs, source, err := s.advisors.RecommendFrom(ctx, llm.AnalysisInput{
		MenuItems:   snapshot.MenuItems,
		RevenueData: snapshot.RevenueData,
		WasteData:   snapshot.WasteData,
	})
	if err != nil {
		return RefreshResult{}, err
	}
	if len(recs) > models.MaxRecommendations {
		recs = recs[:models.MaxRecommendations]
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.appliedRefresh {
		return RefreshResult{}, fmt.Errorf("%w: refresh %d finished after %d", models.ErrSuperseded, seq, s.appliedRefresh)
	}
	s.appliedRefresh = seq

	notification := AddNotification{
		Type:    models.NotificationSuccess,
		Title:   "Analysis complete",
		Message: fmt.Sprintf("%d recommendations generated", len(recs)),
	}
	if source == "heuristic" && s.remoteAdvisor {
		notification.Type = models.NotificationWarning
		notification.Message = fmt.Sprintf("AI analysis unavailable, %d rule-based recommendations generated", len(recs))
	}
	if _, err := s.commitLocked(ctx, SetRecommendations{Recommendations: recs}, notification); err != nil {
		return RefreshResult{}, err
	}
	return RefreshResult{Recommendations: cloneSlice(s.state.Recommendations), Source: source}, nil
}

// Upload validates, parses and filters a POS upload, then replaces the menu
// with the items that survived.
func (s *Store) Upload(ctx context.Context, p upload.Payload) (UploadResult, error) {
	format, err := s.intake.Validate(p)
	if err != nil {
		return UploadResult{}, err
	}
	parsed, err := s.parsers.Parse(ctx, p.Data, format)
	if err != nil {
		return UploadResult{}, err
	}
	valid, dropped := s.intake.FilterValid(parsed.Items)
	if len(valid) == 0 {
		return UploadResult{}, fmt.Errorf("%w: no valid menu items found", models.ErrParse)
	}

	summary := parsed.Summary
	if summary == "" {
		summary = fmt.Sprintf("Imported %d menu items", len(valid))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.commitLocked(ctx,
		ReplaceAll{Raw: valid},
		AddNotification{Type: models.NotificationSuccess, Title: "Upload complete", Message: summary},
	)
	if err != nil {
		return UploadResult{}, err
	}
	return UploadResult{
		Format:    format,
		MenuItems: cloneSlice(s.state.MenuItems),
		Summary:   summary,
		Skipped:   parsed.Skipped + dropped,
	}, nil
}

func (s *Store) GenerateInsights(ctx context.Context) ([]models.Insight, error) {
	if s.insights == nil {
		return nil, fmt.Errorf("%w: insights need a language model", models.ErrCollaborator)
	}
	snapshot := s.Snapshot()
	if len(snapshot.MenuItems) == 0 {
		return nil, models.NewValidationError("menuItems", "no menu items to analyze")
	}
	ctx, cancel := context.WithTimeout(ctx, s.collaboratorTimeout)
	defer cancel()
	insights, err := s.insights.Insights(ctx, llm.AnalysisInput{
		MenuItems:   snapshot.MenuItems,
		RevenueData: snapshot.RevenueData,
		WasteData:   snapshot.WasteData,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrCollaborator, err)
	}
	return insights, nil
}

func (s *Store) Chat(ctx context.Context, message string, history []models.ChatMessage) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", models.NewValidationError("message", "is required")
	}
	if s.chatter == nil {
		return "", fmt.Errorf("%w: chat needs a language model", models.ErrCollaborator)
	}
	snapshot := s.Snapshot()
	ctx, cancel := context.WithTimeout(ctx, s.collaboratorTimeout)
	defer cancel()
	reply, err := s.chatter.Chat(ctx, llm.ChatRequest{
		Message:               message,
		MenuItems:             snapshot.MenuItems,
		RecentRecommendations: snapshot.Recommendations,
		History:               history,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrCollaborator, err)
	}
	return reply, nil
}

func (s *Store) AddNotification(ctx context.Context, kind models.NotificationType, title, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.commitLocked(ctx, AddNotification{Type: kind, Title: title, Message: message})
	return err
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.commitLocked(ctx, MarkNotificationRead{ID: id})
	return err
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.commitLocked(ctx, MarkAllNotificationsRead{})
	return err
}

func (s *Store) Close() error {
	return s.kv.Close()
}

// commitLocked reduces every action in order and, only if all succeed,
// persists and installs the result. A failed save keeps the new state in
// memory and surfaces the failure as an error notification. The effect of the
// first action is returned. Callers hold s.mu.
func (s *Store) commitLocked(ctx context.Context, actions ...Action) (Effect, error) {
	next := s.state
	var first Effect
	reset := false
	for i, action := range actions {
		reduced, effect, err := Reduce(next, action, s.env)
		if err != nil {
			return Effect{}, err
		}
		if i == 0 {
			first = effect
		}
		if _, ok := action.(ResetAll); ok {
			reset = true
		}
		next = reduced
	}

	if err := s.persist(ctx, next, reset); err != nil {
		log.Printf("action: persist | result: failure | event: %s | error: %v", first.Event, err)
		if failed, _, nerr := Reduce(next, AddNotification{
			Type:    models.NotificationError,
			Title:   "Changes not saved",
			Message: "Your changes are applied but could not be saved. They will be lost on restart.",
		}, s.env); nerr == nil {
			next = failed
		}
	}
	s.state = next
	s.publish(first)
	return first, nil
}

func (s *Store) persist(ctx context.Context, state State, reset bool) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
	defer cancel()
	if reset {
		if err := s.kv.DeleteAll(ctx, models.SnapshotKeys); err != nil {
			return fmt.Errorf("%w: %w", models.ErrPersistence, err)
		}
		return nil
	}
	entries, err := EncodeSnapshot(state)
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrPersistence, err)
	}
	if err := s.kv.PutAll(ctx, entries); err != nil {
		return fmt.Errorf("%w: %w", models.ErrPersistence, err)
	}
	return nil
}

func (s *Store) publish(effect Effect) {
	if s.events == nil || effect.Event == "" {
		return
	}
	event := models.ChangeEvent{
		Type:         effect.Event,
		Timestamp:    s.env.Now().UTC(),
		Subject:      effect.Subject,
		ItemCount:    len(s.state.MenuItems),
		TotalRevenue: s.state.DashboardStats.TotalRevenue,
		NetProfit:    s.state.DashboardStats.NetProfit,
	}
	if err := s.events.Publish(event); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("action: publish | result: failure | event: %s | error: %v", event.Type, err)
	}
}
