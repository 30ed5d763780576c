package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"postboard/internal/config"
	"postboard/internal/page"
	"postboard/internal/post"
	"postboard/internal/remote"
	"postboard/internal/session"
	"postboard/internal/user"
	"postboard/internal/view"
	"postboard/internal/web"
	"postboard/middleware"
	"postboard/models"
)

// App holds the wired services behind the HTTP handler.
type App struct {
	Handler http.Handler
	Posts   *post.Service
	Users   *user.Service

	cfg        *config.Config
	dispatcher *page.Dispatcher
	postsSnap  *remote.Snapshot[models.Post]
	usersSnap  *remote.Snapshot[models.User]
}

func New(cfg *config.Config) (*App, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	client := remote.NewClient(cfg.APIBaseURL, cfg.FetchTimeout)
	postsSnap := remote.NewSnapshot("posts", client.FetchPosts, cfg.Revalidate)
	usersSnap := remote.NewSnapshot("users", client.FetchUsers, cfg.Revalidate)

	// All page state is mutated on this one worker
	dispatcher := page.NewDispatcher()

	posts := post.NewService(dispatcher, postsSnap)
	users := user.NewService(dispatcher, usersSnap, cfg.LanguageTag())

	webHandler := web.NewWebHandler(
		post.NewHandlers(posts, renderer),
		user.NewHandlers(users, renderer),
		renderer,
		cfg.APIBaseURL,
	)
	sessions := session.NewStore(cfg.SessionSecret, cfg.SecureCookies)
	router := webHandler.SetupRoutes(sessions.Middleware)

	return &App{
		Handler:    middleware.LoggingMiddleware(router),
		Posts:      posts,
		Users:      users,
		cfg:        cfg,
		dispatcher: dispatcher,
		postsSnap:  postsSnap,
		usersSnap:  usersSnap,
	}, nil
}

// Warm fetches both snapshots concurrently so the first page loads render
// without a loading state. A failed fetch is returned but leaves the app
// usable; pages then load on demand.
func (a *App) Warm(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.postsSnap.Warm(ctx); err != nil {
			return fmt.Errorf("failed to warm posts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := a.usersSnap.Warm(ctx); err != nil {
			return fmt.Errorf("failed to warm users: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// SweepIdlePages drops pages nobody has touched within the idle timeout.
func (a *App) SweepIdlePages() int {
	return a.Posts.Sweep(a.cfg.PageIdleTimeout) + a.Users.Sweep(a.cfg.PageIdleTimeout)
}

// RunJanitor sweeps idle pages every JanitorInterval until done is closed.
func (a *App) RunJanitor(done <-chan struct{}) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Page janitor panic recovered: %v", r)
			log.Printf("Page janitor stack trace: %s", debug.Stack())
		}
		log.Println("Page janitor stopped")
	}()

	ticker := time.NewTicker(a.cfg.JanitorInterval)
	defer ticker.Stop()

	log.Printf("Page janitor started, sweeping every %s", a.cfg.JanitorInterval)
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if removed := a.SweepIdlePages(); removed > 0 {
				log.Printf("Page janitor dropped %d idle pages (%d posts, %d users left)",
					removed, a.Posts.Pages(), a.Users.Pages())
			}
		}
	}
}

// Close stops the page dispatcher. Requests still in flight fail with
// page.ErrStopped.
func (a *App) Close() {
	a.dispatcher.Stop()
}
