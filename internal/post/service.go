package post

import (
	"context"
	"time"

	"postboard/internal/form"
	"postboard/internal/page"
	"postboard/internal/remote"
	"postboard/models"
)

// Schema is the post creation form: every field is required and the submit
// button stays disabled until they are filled in.
func Schema() form.Schema[models.PostDraft] {
	return form.Schema[models.PostDraft]{
		Defaults: models.DefaultPostDraft,
		Set: func(d *models.PostDraft, field, value string) error {
			return d.SetField(field, value)
		},
		Validate: func(d models.PostDraft) error {
			return form.RequireNonBlank("Title and body are required", map[string]string{
				"title": d.Title,
				"body":  d.Body,
			})
		},
		Mode: form.DisableSubmit,
	}
}

// Page is the state of one load of the posts page.
type Page struct {
	List *page.ListPage[models.Post]
	Form *form.Controller[models.PostDraft]
}

func NewPage() *Page {
	p := &Page{List: page.NewListPage[models.Post]()}
	p.Form = form.NewController(Schema(), form.Callbacks[models.PostDraft]{
		OnSubmit: func(ctx context.Context, draft models.PostDraft) error {
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
	Posts  []models.Post
	OOB    bool
}

func (v GridView) Loading() bool {
	return v.State == page.NotLoaded
}

func (v GridView) Empty() bool {
	return v.State == page.LoadedEmpty
}

type ModalView struct {
	PageID    string
	Open      bool
	Draft     models.PostDraft
	CanSubmit bool
	Failure   string
}

// SubmitView is what a submission renders: the modal (closed on success) and
// the grid with the new post appended.
type SubmitView struct {
	Modal ModalView
	Grid  GridView
}

// Service owns every live posts page. Page state is only touched on the
// dispatcher; the API fetch happens before an operation is queued.
type Service struct {
	dispatcher *page.Dispatcher
	pages      *page.Registry[*Page]
	snapshot   *remote.Snapshot[models.Post]
}

func NewService(dispatcher *page.Dispatcher, snapshot *remote.Snapshot[models.Post]) *Service {
	return &Service{
		dispatcher: dispatcher,
		pages:      page.NewRegistry[*Page](),
		snapshot:   snapshot,
	}
}

// NewPage registers a fresh page for visitor. When the posts are already
// cached the page starts loaded, otherwise the grid loads on first request.
func (s *Service) NewPage(visitor string) (string, GridView) {
	p := NewPage()
	if posts, ok := s.snapshot.Cached(); ok {
		p.List.Seed(posts)
	}
	id := s.pages.Create(visitor, p)
	return id, gridView(id, p)
}

// Grid returns the page's posts, fetching them first if the page has not
// been loaded yet.
func (s *Service) Grid(ctx context.Context, visitor, id string) (GridView, error) {
	p, err := s.pages.Get(id, visitor)
	if err != nil {
		return GridView{}, err
	}
	if err := s.ensureLoaded(ctx, p); err != nil {
		return GridView{}, err
	}
	return page.Run(ctx, s.dispatcher, func() (GridView, error) {
		return gridView(id, p), nil
	})
}

// Records returns a copy of the page's posts.
func (s *Service) Records(ctx context.Context, visitor, id string) ([]models.Post, error) {
	p, err := s.pages.Get(id, visitor)
	if err != nil {
		return nil, err
	}
	if err := s.ensureLoaded(ctx, p); err != nil {
		return nil, err
	}
	return page.Run(ctx, s.dispatcher, func() ([]models.Post, error) {
		return p.List.Records(), nil
	})
}

// OpenModal opens the creation form, prefilled with initial.
func (s *Service) OpenModal(ctx context.Context, visitor, id string, initial map[string]string) (ModalView, error) {
	return withPage(ctx, s, visitor, id, func(p *Page) (ModalView, error) {
		if err := p.Form.Open(initial); err != nil {
			return ModalView{}, err
		}
		p.List.OpenModal()
		return modalView(id, p), nil
	})
}

// CloseModal discards the draft and hides the form.
func (s *Service) CloseModal(ctx context.Context, visitor, id string) (ModalView, error) {
	return withPage(ctx, s, visitor, id, func(p *Page) (ModalView, error) {
		p.Form.Close()
		return modalView(id, p), nil
	})
}

// SetField changes one field of the open draft. The returned view reflects
// the draft after the change, or the unchanged draft on error.
func (s *Service) SetField(ctx context.Context, visitor, id, field, value string) (ModalView, error) {
	var setErr error
	view, err := withPage(ctx, s, visitor, id, func(p *Page) (ModalView, error) {
		setErr = p.Form.SetField(field, value)
		return modalView(id, p), nil
	})
	if err != nil {
		return ModalView{}, err
	}
	return view, setErr
}

// Submit applies the posted field values to the draft and hands it to the
// page collection. Field, validation and collection errors are returned
// alongside a view of the form, which is still open.
func (s *Service) Submit(ctx context.Context, visitor, id string, fields map[string]string) (SubmitView, error) {
	var submitErr error
	view, err := withPage(ctx, s, visitor, id, func(p *Page) (SubmitView, error) {
		submitErr = p.Form.SetFields(fields)
		if submitErr == nil {
			submitErr = p.Form.Submit(ctx)
		}
		grid := gridView(id, p)
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

	posts := s.snapshot.Load(ctx)
	return s.dispatcher.Execute(ctx, func() error {
		p.List.Seed(posts)
		return nil
	})
}

// withPage looks up the visitor's page and runs fn on the dispatcher.
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

func gridView(id string, p *Page) GridView {
	return GridView{
		PageID: id,
		State:  p.List.State(),
		Posts:  p.List.Records(),
	}
}

func modalView(id string, p *Page) ModalView {
	return ModalView{
		PageID:    id,
		Open:      p.List.ModalOpen(),
		Draft:     p.Form.Draft(),
		CanSubmit: p.Form.CanSubmit(),
		Failure:   p.Form.Failure(),
	}
}
