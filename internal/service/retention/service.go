package retention

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/crm-retention/internal/domain"
	"github.com/ignite/crm-retention/internal/filter"
	"github.com/ignite/crm-retention/internal/pkg/distlock"
	"github.com/ignite/crm-retention/internal/pkg/logger"
	rules "github.com/ignite/crm-retention/internal/retention"
)

// lockKey names the distributed lock held during a pass.
const lockKey = "gdpr-retention-pass"

// Service runs the retention rule over stored contacts. It is safe for
// concurrent use.
type Service struct {
	repo      Repository
	protected ProtectedProvider
	runs      RunStore
	archive   PlanArchiver
	locks     distlock.Factory
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithRunStore records every plan's summary.
func WithRunStore(rs RunStore) Option { return func(s *Service) { s.runs = rs } }

// WithArchive stores every computed plan.
func WithArchive(a PlanArchiver) Option { return func(s *Service) { s.archive = a } }

// WithLocks serializes plans across instances.
func WithLocks(f distlock.Factory) Option { return func(s *Service) { s.locks = f } }

// WithClock overrides the clock used when a request has no date.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// NewService creates a retention service backed by the given repository.
func NewService(repo Repository, protected ProtectedProvider, opts ...Option) *Service {
	s := &Service{repo: repo, protected: protected, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Evaluation is the decision for one contact together with its inputs.
type Evaluation struct {
	Contact             domain.Contact     `json:"contact"`
	AccountType         domain.AccountType `json:"account_type,omitempty"`
	RecentOpportunities int                `json:"recent_opportunities"`
	Notes               int                `json:"notes"`
	Emails              int                `json:"emails"`
	Result              rules.Result       `json:"result"`
}

// Evaluate classifies one stored contact.
func (s *Service) Evaluate(ctx context.Context, contactID string, today time.Time) (*Evaluation, error) {
	c, err := s.repo.ContactByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	protected, err := s.protected.Set(ctx)
	if err != nil {
		return nil, fmt.Errorf("load protected emails: %w", err)
	}
	ev, err := s.evaluate(ctx, *c, s.day(today), protected, newAccountCache())
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// ClassifyRequest carries a contact and its context supplied by a caller
// rather than read from the repository.
type ClassifyRequest struct {
	Contact       domain.Contact       `json:"contact"`
	Account       *domain.Account      `json:"account,omitempty"`
	Opportunities []domain.Opportunity `json:"opportunities,omitempty"`
	Notes         int                  `json:"notes"`
	Emails        int                  `json:"emails"`
	Today         time.Time            `json:"today"`
}

// UnmarshalJSON accepts today as YYYY-MM-DD or RFC 3339.
func (r *ClassifyRequest) UnmarshalJSON(b []byte) error {
	type plain ClassifyRequest
	aux := struct {
		*plain
		Today domain.Date `json:"today"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.Today = aux.Today.Time
	return nil
}

// Classify applies the rule to caller-supplied records, using the protected
// list in effect.
func (s *Service) Classify(ctx context.Context, req ClassifyRequest) (rules.Result, error) {
	protected, err := s.protected.Set(ctx)
	if err != nil {
		return rules.Result{}, fmt.Errorf("load protected emails: %w", err)
	}
	today := s.day(req.Today)
	account := req.Account
	if account == nil && req.Contact.HasAccount() {
		account = &domain.Account{ID: req.Contact.AccountID}
	}
	recent := 0
	if account != nil {
		recent = rules.RecentOpportunityCount(req.Opportunities, today)
	}
	return rules.Classify(rules.Input{
		Contact:             req.Contact,
		Account:             account,
		RecentOpportunities: recent,
		Notes:               req.Notes,
		Emails:              req.Emails,
		Today:               today,
		Protected:           protected,
	}), nil
}

// PlanRequest selects what a pass looks for.
type PlanRequest struct {
	Action domain.GDPRAction `json:"action"`
	Filter string            `json:"filter"`
	Today  time.Time         `json:"today"`
}

// UnmarshalJSON accepts today as YYYY-MM-DD or RFC 3339.
func (r *PlanRequest) UnmarshalJSON(b []byte) error {
	type plain PlanRequest
	aux := struct {
		*plain
		Today domain.Date `json:"today"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.Today = aux.Today.Time
	return nil
}

// Candidate is a contact the pass would anonymize or delete.
type Candidate struct {
	Contact     domain.Contact           `json:"contact"`
	CountryCode string                   `json:"country_code,omitempty"`
	Decision    domain.RetentionDecision `json:"decision"`
	Reasons     []string                 `json:"reasons"`
}

// Plan is the outcome of one pass.
type Plan struct {
	RunID      string            `json:"run_id"`
	Action     domain.GDPRAction `json:"action"`
	Filter     string            `json:"filter,omitempty"`
	Today      time.Time         `json:"today"`
	Evaluated  int               `json:"evaluated"`
	Kept       int               `json:"kept"`
	Protected  int               `json:"protected"`
	Candidates []Candidate       `json:"candidates"`
}

// Plan evaluates every stored contact that matches the text filter and
// returns those whose decision matches the requested action. Contacts the
// protected list saved from that action are counted in Protected.
func (s *Service) Plan(ctx context.Context, req PlanRequest) (*Plan, error) {
	if req.Action == domain.GDPRNoAction || !req.Action.Valid() {
		return nil, ErrInvalidAction
	}
	if s.locks == nil {
		return s.plan(ctx, req)
	}

	var plan *Plan
	err := distlock.Do(ctx, s.locks(lockKey), func(ctx context.Context) error {
		var err error
		plan, err = s.plan(ctx, req)
		return err
	})
	if errors.Is(err, distlock.ErrHeld) {
		return nil, ErrRunInProgress
	}
	return plan, err
}

func (s *Service) plan(ctx context.Context, req PlanRequest) (*Plan, error) {
	started := s.now()
	today := s.day(req.Today)

	protected, err := s.protected.Set(ctx)
	if err != nil {
		return nil, fmt.Errorf("load protected emails: %w", err)
	}
	contacts, err := s.repo.Contacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}

	plan := &Plan{
		RunID:      uuid.New().String(),
		Action:     req.Action,
		Filter:     req.Filter,
		Today:      today,
		Candidates: []Candidate{},
	}
	accounts := newAccountCache()

	for _, c := range contacts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !filter.Contact(c, req.Filter) {
			continue
		}
		ev, err := s.evaluate(ctx, c, today, protected, accounts)
		if err != nil {
			return nil, err
		}
		plan.Evaluated++

		res := ev.Result
		if res.Protected && rules.MatchesAction(res.Overridden, req.Action) {
			plan.Protected++
			logger.Debug("contact protected by newsletter", "contact_id", c.ID, "email", c.PreferredEmail, "against", res.Overridden)
			continue
		}
		if rules.MatchesAction(res.Decision, req.Action) {
			plan.Candidates = append(plan.Candidates, Candidate{
				Contact:     c,
				CountryCode: filter.CountryCode(c.Country),
				Decision:    res.Decision,
				Reasons:     res.Reasons,
			})
			continue
		}
		if res.Decision == domain.DecisionKeep {
			plan.Kept++
		}
	}

	logger.Info("retention plan computed",
		"run_id", plan.RunID,
		"action", req.Action,
		"evaluated", plan.Evaluated,
		"candidates", len(plan.Candidates),
		"kept", plan.Kept,
		"protected", plan.Protected,
	)

	if s.runs != nil {
		run := &domain.RetentionRun{
			ID:         plan.RunID,
			Action:     req.Action,
			Filter:     req.Filter,
			Evaluated:  plan.Evaluated,
			Kept:       plan.Kept,
			Candidates: len(plan.Candidates),
			Protected:  plan.Protected,
			StartedAt:  started,
			FinishedAt: s.now(),
		}
		if err := s.runs.SaveRun(ctx, run); err != nil {
			logger.Warn("failed to record retention run", "run_id", plan.RunID, "error", err)
		}
	}
	if s.archive != nil {
		if err := s.archive.SavePlan(ctx, plan); err != nil {
			logger.Warn("failed to archive retention plan", "run_id", plan.RunID, "error", err)
		}
	}
	return plan, nil
}

// Runs lists recorded passes, newest first.
func (s *Service) Runs(ctx context.Context, limit int) ([]domain.RetentionRun, error) {
	if s.runs == nil {
		return []domain.RetentionRun{}, nil
	}
	return s.runs.ListRuns(ctx, limit)
}

func (s *Service) evaluate(ctx context.Context, c domain.Contact, today time.Time, protected rules.ProtectedSet, accounts *accountCache) (*Evaluation, error) {
	ev := &Evaluation{Contact: c}
	in := rules.Input{Contact: c, Today: today, Protected: protected}

	if c.HasAccount() {
		info, err := accounts.get(ctx, s.repo, c.AccountID, today)
		if err != nil {
			return nil, err
		}
		in.Account = info.account
		in.RecentOpportunities = info.recent
		ev.AccountType = info.account.Type
		ev.RecentOpportunities = info.recent
	}

	notes, err := s.repo.NoteCount(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("count notes for %s: %w", c.ID, err)
	}
	emails, err := s.repo.EmailCount(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("count emails for %s: %w", c.ID, err)
	}
	in.Notes, in.Emails = notes, emails
	ev.Notes, ev.Emails = notes, emails

	ev.Result = rules.Classify(in)
	return ev, nil
}

// day defaults an unset date to the service clock.
func (s *Service) day(t time.Time) time.Time {
	if t.IsZero() {
		return s.now()
	}
	return t
}

type accountInfo struct {
	account *domain.Account
	recent  int
}

// accountCache avoids loading the same account and its opportunities once
// per contact within a pass.
type accountCache struct {
	byID map[string]accountInfo
}

func newAccountCache() *accountCache {
	return &accountCache{byID: make(map[string]accountInfo)}
}

func (a *accountCache) get(ctx context.Context, repo Repository, id string, today time.Time) (accountInfo, error) {
	if info, ok := a.byID[id]; ok {
		return info, nil
	}

	account, err := repo.AccountByID(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		// linked to an account we don't have: still "has an account"
		account = &domain.Account{ID: id}
	case err != nil:
		return accountInfo{}, fmt.Errorf("load account %s: %w", id, err)
	}

	opps, err := repo.OpportunitiesForAccount(ctx, id)
	if err != nil {
		return accountInfo{}, fmt.Errorf("load opportunities for %s: %w", id, err)
	}

	info := accountInfo{account: account, recent: rules.RecentOpportunityCount(opps, today)}
	a.byID[id] = info
	return info, nil
}
