package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ArowuTest/zithara-mail-backend/internal/models"
	"github.com/ArowuTest/zithara-mail-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memCampaigns struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Campaign
}

func newMemCampaigns() *memCampaigns {
	return &memCampaigns{items: make(map[primitive.ObjectID]*models.Campaign)}
}

func (m *memCampaigns) get(id primitive.ObjectID) *models.Campaign {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *m.items[id]
	return &c
}

func (m *memCampaigns) Create(ctx context.Context, c *models.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	cp := *c
	m.items[c.ID] = &cp
	return nil
}

func (m *memCampaigns) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCampaigns) FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]*models.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Campaign
	for _, c := range m.items {
		if c.CreatedBy == owner {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memCampaigns) FindByStatus(ctx context.Context, status models.CampaignStatus) ([]*models.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Campaign
	for _, c := range m.items {
		if c.Status == status {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memCampaigns) Update(ctx context.Context, c *models.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.items[c.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	cp := *c
	cp.Analytics = old.Analytics
	m.items[c.ID] = &cp
	return nil
}

func (m *memCampaigns) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memCampaigns) IncrementAnalytics(ctx context.Context, id primitive.ObjectID, field models.AnalyticsField, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return repositories.ErrNotFound
	}
	switch field {
	case models.AnalyticsSent:
		c.Analytics.Sent += delta
	case models.AnalyticsFailed:
		c.Analytics.Failed += delta
	case models.AnalyticsOpened:
		c.Analytics.Opened += delta
	case models.AnalyticsClicked:
		c.Analytics.Clicked += delta
	case models.AnalyticsUnsubscribed:
		c.Analytics.Unsubscribed += delta
	}
	return nil
}

func (m *memCampaigns) RecordDispatch(ctx context.Context, id primitive.ObjectID, sent, failed int, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.Analytics.Sent += int64(sent)
	c.Analytics.Failed += int64(failed)
	c.LastSent = &at
	return nil
}

type memSubscribers struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Subscriber
	order []primitive.ObjectID
}

func newMemSubscribers() *memSubscribers {
	return &memSubscribers{items: make(map[primitive.ObjectID]*models.Subscriber)}
}

func (m *memSubscribers) get(id primitive.ObjectID) *models.Subscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := *m.items[id]
	s.CampaignActivity = append([]models.Activity(nil), m.items[id].CampaignActivity...)
	return &s
}

func (m *memSubscribers) Create(ctx context.Context, s *models.Subscriber) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.Email == s.Email && existing.CreatedBy == s.CreatedBy {
			return repositories.ErrDuplicate
		}
	}
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	if s.Status == "" {
		s.Status = models.SubscriberActive
	}
	cp := *s
	m.items[s.ID] = &cp
	m.order = append(m.order, s.ID)
	return nil
}

func (m *memSubscribers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSubscribers) FindByEmailAndOwner(ctx context.Context, email string, owner primitive.ObjectID) (*models.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.items {
		if s.Email == strings.ToLower(email) && s.CreatedBy == owner {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memSubscribers) FindByIDAndEmail(ctx context.Context, id primitive.ObjectID, email string) (*models.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[id]
	if !ok || s.Email != strings.ToLower(email) {
		return nil, repositories.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSubscribers) Find(ctx context.Context, filter models.SubscriberFilter) ([]*models.Subscriber, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*models.Subscriber
	for _, id := range m.order {
		s, ok := m.items[id]
		if !ok || s.CreatedBy != filter.Owner {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		cp := *s
		all = append(all, &cp)
	}
	total := int64(len(all))
	start := min((filter.Page-1)*filter.Limit, len(all))
	end := min(start+filter.Limit, len(all))
	return all[start:end], total, nil
}

func (m *memSubscribers) FindActive(ctx context.Context, owner primitive.ObjectID, tags []string) ([]*models.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Subscriber
	for _, id := range m.order {
		s, ok := m.items[id]
		if !ok || s.CreatedBy != owner || s.Status != models.SubscriberActive {
			continue
		}
		if len(tags) > 0 && !hasAnyTag(s.Tags, tags) {
			continue
		}
		cp := *s
		cp.CampaignActivity = nil
		out = append(out, &cp)
	}
	return out, nil
}

func hasAnyTag(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func (m *memSubscribers) Update(ctx context.Context, s *models.Subscriber) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.items[s.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	cp := *s
	cp.CampaignActivity = old.CampaignActivity
	m.items[s.ID] = &cp
	return nil
}

func (m *memSubscribers) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.SubscriberStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[id]
	if !ok {
		return repositories.ErrNotFound
	}
	s.Status = status
	return nil
}

func (m *memSubscribers) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memSubscribers) AppendActivity(ctx context.Context, id primitive.ObjectID, a models.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[id]
	if !ok {
		return repositories.ErrNotFound
	}
	s.CampaignActivity = append(s.CampaignActivity, a)
	return nil
}

func (m *memSubscribers) AppendActivityOnce(ctx context.Context, id primitive.ObjectID, a models.Activity) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if s.HasActivity(a.Campaign, a.Action) {
		return false, nil
	}
	s.CampaignActivity = append(s.CampaignActivity, a)
	return true, nil
}

type memUsers struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{items: make(map[primitive.ObjectID]*models.User)}
}

func (m *memUsers) Create(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.Email == u.Email {
			return repositories.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	cp := *u
	m.items[u.ID] = &cp
	return nil
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memUsers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// seed helpers

func seedCampaign(t interface{ Helper() }, repo *memCampaigns, owner primitive.ObjectID, mutate ...func(*models.Campaign)) *models.Campaign {
	t.Helper()
	c := &models.Campaign{
		Name:      "Spring sale",
		Subject:   "Hello {{firstName}}",
		Content:   `<p>Hi {{firstName}} {{lastName}}</p><a href="https://shop.example.com/sale">Shop</a>`,
		Status:    models.CampaignDraft,
		Type:      models.CampaignOneTime,
		CreatedBy: owner,
	}
	for _, m := range mutate {
		m(c)
	}
	_ = repo.Create(context.Background(), c)
	return c
}

func seedSubscriber(t interface{ Helper() }, repo *memSubscribers, owner primitive.ObjectID, email string, mutate ...func(*models.Subscriber)) *models.Subscriber {
	t.Helper()
	s := &models.Subscriber{
		Email:     email,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Status:    models.SubscriberActive,
		CreatedBy: owner,
	}
	for _, m := range mutate {
		m(s)
	}
	_ = repo.Create(context.Background(), s)
	return s
}

type stubFooter struct{}

func (stubFooter) Footer(unsubscribeURL string) (string, error) {
	return `<p class="footer"><a href="` + unsubscribeURL + `">unsubscribe here</a></p>`, nil
}
