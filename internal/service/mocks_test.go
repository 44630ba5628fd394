package service

import (
	"context"
	"sort"

	"feira-hub/internal/domain"
	"feira-hub/internal/repository"

	"github.com/google/uuid"
)

// In-memory fakes for the repository interfaces. They mirror the sentinel
// error behavior of the SQL implementations so service tests exercise the
// same error paths.

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*domain.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrUserAlreadyExists
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) SetStoreID(ctx context.Context, userID, storeID uuid.UUID) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	sid := storeID
	u.StoreID = &sid
	return nil
}

func (r *fakeUserRepo) UpdateAvatarURL(ctx context.Context, userID uuid.UUID, avatarURL string) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.AvatarURL = avatarURL
	return nil
}

func (r *fakeUserRepo) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type fakeStoreRepo struct {
	stores map[uuid.UUID]*domain.Store
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{stores: map[uuid.UUID]*domain.Store{}}
}

func (r *fakeStoreRepo) Create(ctx context.Context, store *domain.Store) error {
	for _, s := range r.stores {
		if s.Name == store.Name {
			return repository.ErrStoreNameTaken
		}
	}
	cp := *store
	r.stores[store.ID] = &cp
	return nil
}

func (r *fakeStoreRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Store, error) {
	s, ok := r.stores[id]
	if !ok {
		return nil, repository.ErrStoreNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStoreRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Store, error) {
	for _, s := range r.stores {
		if s.OwnerID == ownerID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrStoreNotFound
}

type fakeProductRepo struct {
	products map[uuid.UUID]*domain.Product
	// feedback counts drive the top-rated ranking
	feedbackCounts map[uuid.UUID]int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products:       map[uuid.UUID]*domain.Product{},
		feedbackCounts: map[uuid.UUID]int{},
	}
}

func (r *fakeProductRepo) Create(ctx context.Context, product *domain.Product) error {
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) ListAll(ctx context.Context) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeProductRepo) ListByStore(ctx context.Context, storeID uuid.UUID) ([]*domain.Product, error) {
	out := []*domain.Product{}
	for _, p := range r.products {
		if p.StoreID == storeID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeProductRepo) TopRatedByFeedbackCount(ctx context.Context, limit int) ([]repository.RatedProduct, error) {
	rated := []repository.RatedProduct{}
	for _, p := range r.products {
		rated = append(rated, repository.RatedProduct{
			Product:       *p,
			FeedbackCount: r.feedbackCounts[p.ID],
		})
	}
	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].FeedbackCount > rated[j].FeedbackCount
	})
	if len(rated) > limit {
		rated = rated[:limit]
	}
	return rated, nil
}

type fakeOrderRepo struct {
	orders map[uuid.UUID]*domain.Order
	// messages written by the atomic order+notification insert
	messages *fakeMessageRepo
	stats    []repository.BestSellingStat
}

func newFakeOrderRepo(messages *fakeMessageRepo) *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:   map[uuid.UUID]*domain.Order{},
		messages: messages,
	}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *domain.Order, systemMessage *domain.Message) error {
	cp := *order
	r.orders[order.ID] = &cp
	if r.messages != nil {
		mcp := *systemMessage
		r.messages.messages = append(r.messages.messages, &mcp)
	}
	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) ListByConsumer(ctx context.Context, consumerID uuid.UUID) ([]*domain.Order, error) {
	out := []*domain.Order{}
	for _, o := range r.orders {
		if o.ConsumerID == consumerID {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeOrderRepo) ListByProducer(ctx context.Context, producerID uuid.UUID) ([]*domain.Order, error) {
	out := []*domain.Order{}
	for _, o := range r.orders {
		if o.ProducerID == producerID {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	o.Status = status
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) BestSellingStats(ctx context.Context, limit int) ([]repository.BestSellingStat, error) {
	if r.stats != nil {
		if len(r.stats) > limit {
			return r.stats[:limit], nil
		}
		return r.stats, nil
	}

	totals := map[uuid.UUID]int64{}
	for _, o := range r.orders {
		if o.Status == domain.StatusCancelled || o.Status == domain.StatusAwaitingConfirmation {
			continue
		}
		totals[o.ProductID] += int64(o.Quantity)
	}
	stats := []repository.BestSellingStat{}
	for pid, total := range totals {
		stats = append(stats, repository.BestSellingStat{ProductID: pid, TotalSold: total})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].TotalSold > stats[j].TotalSold })
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats, nil
}

type fakeMessageRepo struct {
	messages []*domain.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *domain.Message) error {
	cp := *message
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *fakeMessageRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.Message, error) {
	out := []*domain.Message{}
	for _, m := range r.messages {
		if m.OrderID == orderID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakeFeedbackRepo struct {
	feedbacks []*domain.Feedback
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{}
}

func (r *fakeFeedbackRepo) Create(ctx context.Context, feedback *domain.Feedback) error {
	cp := *feedback
	r.feedbacks = append(r.feedbacks, &cp)
	return nil
}

func (r *fakeFeedbackRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Feedback, error) {
	out := []*domain.Feedback{}
	for _, f := range r.feedbacks {
		if f.ProductID == productID {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
