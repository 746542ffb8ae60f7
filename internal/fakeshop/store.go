package fakeshop

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"gurkerl-cli/internal/domain"
)

var (
	errUnknownProduct = errors.New("unknown product")
	errUnknownLine    = errors.New("unknown cart item")
	errUnknownList    = errors.New("unknown shopping list")
	errUnknownOrder   = errors.New("unknown order")
	errOverStock      = errors.New("requested amount exceeds stock")
	errBadCredentials = errors.New("invalid credentials")
)

var defaultMinimalOrderPrice = decimal.RequireFromString("39.00")

type account struct {
	email        string
	passwordHash []byte
}

type grant struct {
	email     string
	expiresAt time.Time
}

type cartLine struct {
	fieldID  domain.OrderFieldID
	quantity int
}

type userState struct {
	cartID int64
	lines  map[domain.ProductID]*cartLine
	lists  map[int64]*domain.ShoppingList
	orders []domain.Order
}

// Store is the fake shop's in-memory state. All methods are safe for
// concurrent use.
type Store struct {
	mu           sync.Mutex
	products     map[domain.ProductID]domain.Product
	accounts     map[string]account
	grants       map[string]grant
	users        map[string]*userState
	nextFieldID  domain.OrderFieldID
	nextListID   int64
	nextCartID   int64
	minimalOrder decimal.Decimal
	now          func() time.Time
}

func NewStore() *Store {
	return &Store{
		products:     map[domain.ProductID]domain.Product{},
		accounts:     map[string]account{},
		grants:       map[string]grant{},
		users:        map[string]*userState{},
		nextFieldID:  84365000,
		nextListID:   500,
		nextCartID:   12363000,
		minimalOrder: defaultMinimalOrderPrice,
		now:          time.Now,
	}
}

// AddAccount registers a login. The password is stored as a bcrypt hash.
func (s *Store) AddAccount(email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	email = normalizeEmail(email)
	s.accounts[email] = account{email: email, passwordHash: hash}
	s.user(email)
	return nil
}

// Login verifies the password and issues a new opaque token.
func (s *Store) Login(email, password string) (string, error) {
	s.mu.Lock()
	acc, ok := s.accounts[normalizeEmail(email)]
	s.mu.Unlock()
	if !ok {
		return "", errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		return "", errBadCredentials
	}

	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[token] = grant{email: acc.email, expiresAt: s.now().Add(domain.SessionTTL)}
	return token, nil
}

// Authenticate maps a token to its account. Expired tokens are dropped.
func (s *Store) Authenticate(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.grants[token]
	if !ok {
		return "", false
	}
	if !s.now().Before(g.expiresAt) {
		delete(s.grants, token)
		return "", false
	}
	return g.email, true
}

// Revoke invalidates a token, e.g. to simulate a server-side logout.
func (s *Store) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants, token)
}

func (s *Store) UpsertProduct(_ context.Context, p domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
	return nil
}

func (s *Store) AddOrder(_ context.Context, email string, o domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(normalizeEmail(email))
	u.orders = append(u.orders, o)
	return nil
}

func (s *Store) AddShoppingList(_ context.Context, email string, l domain.ShoppingList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createList(normalizeEmail(email), l)
	return nil
}

// Search returns ids of products whose name or brand contains query, ordered by name.
func (s *Store) Search(query string) []domain.ProductID {
	q := strings.ToLower(strings.TrimSpace(query))
	s.mu.Lock()
	defer s.mu.Unlock()
	matches := make([]domain.Product, 0)
	for _, p := range s.products {
		if q == "" {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Brand), q) {
			matches = append(matches, p)
		}
	}
	slices.SortFunc(matches, func(a, b domain.Product) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	ids := make([]domain.ProductID, 0, len(matches))
	for _, p := range matches {
		ids = append(ids, p.ID)
	}
	return ids
}

// Products returns the known products among ids, in the order requested.
func (s *Store) Products(ids []domain.ProductID) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Cart builds the current cart of email with server-side totals.
func (s *Store) Cart(email string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(email)
	cart := domain.Cart{
		ID:                u.cartID,
		Items:             make(map[domain.ProductID]domain.CartItem, len(u.lines)),
		MinimalOrderPrice: s.minimalOrder,
	}
	for productID, line := range u.lines {
		p := s.products[productID]
		item := domain.CartItem{
			ProductID:     productID,
			OrderFieldID:  line.fieldID,
			Name:          p.Name,
			Brand:         p.Brand,
			Quantity:      line.quantity,
			UnitPrice:     p.Price(),
			OriginalPrice: p.OriginalPrice,
			TextualAmount: p.TextualAmount,
			Unit:          p.Unit,
		}
		item.DiscountPercent = discountPercent(p)
		qty := decimal.NewFromInt(int64(line.quantity))
		cart.TotalPrice = cart.TotalPrice.Add(item.UnitPrice.Mul(qty))
		cart.TotalSavings = cart.TotalSavings.Add(p.OriginalPrice.Sub(item.UnitPrice).Mul(qty))
		cart.Items[productID] = item
	}
	cart.MeetsMinimum = cart.TotalPrice.GreaterThanOrEqual(cart.MinimalOrderPrice)
	cart.SubmitConditionPassed = cart.MeetsMinimum && len(cart.Items) > 0
	return cart
}

// AddToCart adds amount of a product, creating its line item when missing.
func (s *Store) AddToCart(email string, productID domain.ProductID, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return errUnknownProduct
	}
	u := s.user(email)
	line, ok := u.lines[productID]
	if !ok {
		s.nextFieldID++
		line = &cartLine{fieldID: s.nextFieldID}
		u.lines[productID] = line
	}
	if line.quantity+amount > p.MaxAmount {
		if line.quantity == 0 {
			delete(u.lines, productID)
		}
		return errOverStock
	}
	line.quantity += amount
	return nil
}

// SetQuantity sets a line item's quantity; zero removes it.
func (s *Store) SetQuantity(email string, fieldID domain.OrderFieldID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(email)
	for productID, line := range u.lines {
		if line.fieldID != fieldID {
			continue
		}
		if quantity == 0 {
			delete(u.lines, productID)
			return nil
		}
		if quantity > s.products[productID].MaxAmount {
			return errOverStock
		}
		line.quantity = quantity
		return nil
	}
	return errUnknownLine
}

func (s *Store) ListIDs(email string) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(email)
	ids := make([]int64, 0, len(u.lists))
	for id := range u.lists {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Store) List(email string, id int64) (domain.ShoppingList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.user(email).lists[id]
	if !ok {
		return domain.ShoppingList{}, errUnknownList
	}
	return *l, nil
}

func (s *Store) CreateList(email, name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createList(email, domain.ShoppingList{
		Name:    name,
		Type:    "GENERAL",
		Actions: []string{"EDIT", "DELETE", "SHARE"},
	})
}

func (s *Store) DeleteList(email string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(email)
	if _, ok := u.lists[id]; !ok {
		return errUnknownList
	}
	delete(u.lists, id)
	return nil
}

// Orders returns up to limit orders, most recent first.
func (s *Store) Orders(email string, limit int) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := slices.Clone(s.user(email).orders)
	slices.SortFunc(orders, func(a, b domain.Order) int { return b.Date.Compare(a.Date) })
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders
}

func (s *Store) Order(email, number string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.user(email).orders {
		if o.OrderNumber == number {
			return o, nil
		}
	}
	return domain.Order{}, errUnknownOrder
}

func (s *Store) createList(email string, l domain.ShoppingList) int64 {
	s.nextListID++
	l.ID = s.nextListID
	if l.Products == nil {
		l.Products = []domain.ShoppingListProduct{}
	}
	s.user(email).lists[l.ID] = &l
	return l.ID
}

// user returns the state for email, creating it. Callers hold s.mu.
func (s *Store) user(email string) *userState {
	u, ok := s.users[email]
	if !ok {
		s.nextCartID++
		u = &userState{
			cartID: s.nextCartID,
			lines:  map[domain.ProductID]*cartLine{},
			lists:  map[int64]*domain.ShoppingList{},
		}
		s.users[email] = u
	}
	return u
}

func discountPercent(p domain.Product) int {
	if p.SalePrice == nil || !p.OriginalPrice.IsPositive() {
		return 0
	}
	saved := p.OriginalPrice.Sub(*p.SalePrice)
	return int(saved.Div(p.OriginalPrice).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
