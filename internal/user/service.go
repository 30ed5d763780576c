package user

import (
	"context"
	"time"

	"golang.org/x/text/language"

	"postboard/internal/form"
	"postboard/internal/page"
	"postboard/internal/remote"
	"postboard/models"
)

// Schema is the user creation form. Only name and email are required, and a
// submit with either one blank raises an alert instead of being blocked.
func Schema() form.Schema[models.UserDraft] {
	return form.Schema[models.UserDraft]{
		Defaults: func() models.UserDraft { return models.UserDraft{} },
		Set: func(d *models.UserDraft, field, value string) error {
			return d.SetField(field, value)
		},
		Validate: func(d models.UserDraft) error {
			return form.RequireNonBlank("Name and email are required", map[string]string{
				"name":  d.Name,
				"email": d.Email,
			})
		},
		Mode: form.BlockingAlert,
	}
}

// Query is the derived view a users grid shows.
type Query struct {
	Search string
	Sort   SortField
}

// QueryChange updates parts of a page's Query. Nil fields are left as they are.
type QueryChange struct {
	Search *string
	Sort   *SortField
}

// Page is the state of one load of the users page.
type Page struct {
	List  *page.ListPage[models.User]
	Form  *form.Controller[models.UserDraft]
	Query Query
}

func NewPage() *Page {
	p := &Page{List: page.NewListPage[models.User]()}
	p.Form = form.NewController(Schema(), form.Callbacks[models.UserDraft]{
		OnSubmit: func(ctx context.Context, draft models.UserDraft) error {
			_, err := p.List.Add(draft)
			return err
		},
		OnClose: p.List.CloseModal,
	})
	return p
}

type GridView struct {
	PageID string
	State  page.LoadState
	Users  []models.User
	Total  int
	Search string
	Sort   SortField
	OOB    bool
}

func (v GridView) Loading() bool {
	return v.State == page.NotLoaded
}

// Empty is true when the page has no users at all, as opposed to none
// matching the search.
func (v GridView) Empty() bool {
	return v.State == page.LoadedEmpty
}

type ModalView struct {
	PageID  string
	Open    bool
	Draft   models.UserDraft
	Alert   string
	Failure string
}

type SubmitView struct {
	Modal ModalView
	Grid  GridView
}

type Service struct {
	dispatcher *page.Dispatcher
	pages      *page.Registry[*Page]
	snapshot   *remote.Snapshot[models.User]
	locale     language.Tag
}

func NewService(dispatcher *page.Dispatcher, snapshot *remote.Snapshot[models.User], locale language.Tag) *Service {
	return &Service{
		dispatcher: dispatcher,
		pages:      page.NewRegistry[*Page](),
		snapshot:   snapshot,
		locale:     locale,
	}
}

func (s *Service) NewPage(visitor string) (string, GridView) {
	p := NewPage()
	if users, ok := s.snapshot.Cached(); ok {
		p.List.Seed(users)
	}
	id := s.pages.Create(visitor, p)
	return id, s.gridView(id, p)
}

// Grid applies change to the page's search and sort, loading the users first
// if needed, and returns the resulting view.
func (s *Service) Grid(ctx context.Context, visitor, id string, change QueryChange) (GridView, error) {
	p, err := s.pages.Get(id, visitor)
	if err != nil {
		return GridView{}, err
	}
	if err := s.ensureLoaded(ctx, p); err != nil {
		return GridView{}, err
	}
	return page.Run(ctx, s.dispatcher, func() (GridView, error) {
		if change.Search != nil {
			p.Query.Search = *change.Search
		}
		if change.Sort != nil {
			p.Query.Sort = *change.Sort
		}
		return s.gridView(id, p), nil
	})
}

// Records returns a copy of the page's users in insertion order, ignoring
// the search and sort.
func (s *Service) Records(ctx context.Context, visitor, id string) ([]models.User, error) {
	p, err := s.pages.Get(id, visitor)
	if err != nil {
		return nil, err
	}
	if err := s.ensureLoaded(ctx, p); err != nil {
		return nil, err
	}
	return page.Run(ctx, s.dispatcher, func() ([]models.User, error) {
		return p.List.Records(), nil
	})
}

// OpenModal opens the creation form. initial is keyed by field path, so
// "address.city" prefills the nested city.
func (s *Service) OpenModal(ctx context.Context, visitor, id string, initial map[string]string) (ModalView, error) {
	return withPage(ctx, s, visitor, id, func(p *Page) (ModalView, error) {
		if err := p.Form.Open(initial); err != nil {
			return ModalView{}, err
		}
		p.List.OpenModal()
		return modalView(id, p), nil
	})
}

func (s *Service) CloseModal(ctx context.Context, visitor, id string) (ModalView, error) {
	return withPage(ctx, s, visitor, id, func(p *Page) (ModalView, error) {
		p.Form.Close()
		return modalView(id, p), nil
	})
}

func (s *Service) SetField(ctx context.Context, visitor, id, field, value string) error {
	return s.dispatch(ctx, visitor, id, func(p *Page) error {
		return p.Form.SetField(field, value)
	})
}

// Submit applies the posted values and hands the draft to the page
// collection. On error the returned view holds the form as it stands.
func (s *Service) Submit(ctx context.Context, visitor, id string, fields map[string]string) (SubmitView, error) {
	var submitErr error
	view, err := withPage(ctx, s, visitor, id, func(p *Page) (SubmitView, error) {
		submitErr = p.Form.SetFields(fields)
		if submitErr == nil {
			submitErr = p.Form.Submit(ctx)
		}
		grid := s.gridView(id, p)
		grid.OOB = true
		return SubmitView{Modal: modalView(id, p), Grid: grid}, nil
	})
	if err != nil {
		return SubmitView{}, err
	}
	return view, submitErr
}

func (s *Service) Sweep(maxIdle time.Duration) int {
	return s.pages.Sweep(maxIdle)
}

func (s *Service) Pages() int {
	return s.pages.Len()
}

func (s *Service) ensureLoaded(ctx context.Context, p *Page) error {
	state, err := page.Run(ctx, s.dispatcher, func() (page.LoadState, error) {
		return p.List.State(), nil
	})
	if err != nil || state != page.NotLoaded {
		return err
	}

	users := s.snapshot.Load(ctx)
	return s.dispatcher.Execute(ctx, func() error {
		p.List.Seed(users)
		return nil
	})
}

func (s *Service) dispatch(ctx context.Context, visitor, id string, fn func(p *Page) error) error {
	p, err := s.pages.Get(id, visitor)
	if err != nil {
		return err
	}
	return s.dispatcher.Execute(ctx, func() error {
		return fn(p)
	})
}

func withPage[V any](ctx context.Context, s *Service, visitor, id string, fn func(p *Page) (V, error)) (V, error) {
	p, err := s.pages.Get(id, visitor)
	if err != nil {
		var zero V
		return zero, err
	}
	return page.Run(ctx, s.dispatcher, func() (V, error) {
		return fn(p)
	})
}

// gridView runs on the dispatcher. Filter and Sort work on copies, so the
// page collection is never reordered.
func (s *Service) gridView(id string, p *Page) GridView {
	users := p.List.Records()
	return GridView{
		PageID: id,
		State:  p.List.State(),
		Users:  Sort(Filter(users, p.Query.Search), p.Query.Sort, s.locale),
		Total:  len(users),
		Search: p.Query.Search,
		Sort:   p.Query.Sort,
	}
}

func modalView(id string, p *Page) ModalView {
	return ModalView{
		PageID:  id,
		Open:    p.List.ModalOpen(),
		Draft:   p.Form.Draft(),
		Alert:   p.Form.Alert(),
		Failure: p.Form.Failure(),
	}
}
