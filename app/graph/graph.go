// Package graph is the composition root: it declares every component of the
// service as a lazily built singleton and the dependencies between them.
//
// Nothing is constructed until first asked for, and each component is
// constructed at most once per Graph. Asking for App builds, in order of
// need, the storage handle, the user service, both handlers, both routes,
// the router and finally the HTTP kernel.
package graph

import (
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/shashiranjanraj/lookup/app/handlers"
	"github.com/shashiranjanraj/lookup/app/services"
	"github.com/shashiranjanraj/lookup/config"
	"github.com/shashiranjanraj/lookup/pkg/app"
	"github.com/shashiranjanraj/lookup/pkg/container"
	"github.com/shashiranjanraj/lookup/pkg/database"
	"github.com/shashiranjanraj/lookup/pkg/router"
)

// Slot names, in registration order.
const (
	SlotDB          = "db"
	SlotUsers       = "users"
	SlotMigrations  = "migrations"
	SlotUserHandler = "user_handler"
	SlotHomeHandler = "home_handler"
	SlotUserRoute   = "user_route"
	SlotHelloRoute  = "hello_route"
	SlotRouter      = "router"
	SlotApp         = "app"
)

// Route names.
const (
	UserRouteName  = "users.show"
	HelloRouteName = "home"
)

// Options configures a Graph. Zero fields fall back to config.
type Options struct {
	Driver string
	DSN    string
	// Out receives migration progress; nil means stdout.
	Out io.Writer
}

// Graph holds one slot per component.
type Graph struct {
	c *container.Container

	db          *container.Slot[*database.Handle]
	users       *container.Slot[*services.UserService]
	migrations  *container.Slot[*services.MigrationService]
	userHandler *container.Slot[*handlers.UserHandler]
	homeHandler *container.Slot[*handlers.HomeHandler]
	userRoute   *container.Slot[*router.Route]
	helloRoute  *container.Slot[*router.Route]
	router      *container.Slot[*router.Router]
	app         *container.Slot[http.Handler]
}

// New declares the graph. It opens nothing.
func New(opts Options) *Graph {
	if opts.Driver == "" {
		opts.Driver = config.DatabaseDriver()
	}
	if opts.DSN == "" {
		opts.DSN = config.DatabaseDSN()
	}

	g := &Graph{c: container.New()}

	g.db = container.Singleton(g.c, SlotDB, func() (*database.Handle, error) {
		return database.Open(opts.Driver, opts.DSN)
	})

	g.users = container.Singleton(g.c, SlotUsers, func() (*services.UserService, error) {
		db, err := g.db.Get()
		if err != nil {
			return nil, err
		}
		return services.NewUserService(db), nil
	})

	g.migrations = container.Singleton(g.c, SlotMigrations, func() (*services.MigrationService, error) {
		db, err := g.db.Get()
		if err != nil {
			return nil, err
		}
		return services.NewMigrationService(db, opts.Out), nil
	})

	g.userHandler = container.Singleton(g.c, SlotUserHandler, func() (*handlers.UserHandler, error) {
		users, err := g.users.Get()
		if err != nil {
			return nil, err
		}
		return handlers.NewUserHandler(users), nil
	})

	g.homeHandler = container.Singleton(g.c, SlotHomeHandler, func() (*handlers.HomeHandler, error) {
		return handlers.NewHomeHandler(), nil
	})

	g.userRoute = container.Singleton(g.c, SlotUserRoute, func() (*router.Route, error) {
		h, err := g.userHandler.Get()
		if err != nil {
			return nil, err
		}
		return router.NewRoute(UserRouteName, "/users/{"+handlers.ScreenNameParam+"}", h, http.MethodGet), nil
	})

	g.helloRoute = container.Singleton(g.c, SlotHelloRoute, func() (*router.Route, error) {
		h, err := g.homeHandler.Get()
		if err != nil {
			return nil, err
		}
		return router.NewRoute(HelloRouteName, "/", h), nil
	})

	g.router = container.Singleton(g.c, SlotRouter, func() (*router.Router, error) {
		user, err := g.userRoute.Get()
		if err != nil {
			return nil, err
		}
		hello, err := g.helloRoute.Get()
		if err != nil {
			return nil, err
		}
		return router.New(user, hello), nil
	})

	g.app = container.Singleton(g.c, SlotApp, func() (http.Handler, error) {
		r, err := g.router.Get()
		if err != nil {
			return nil, err
		}
		return app.Kernel(r), nil
	})

	return g
}

var (
	defaultOnce  sync.Once
	defaultGraph *Graph
)

// Default returns the process-wide graph, configured from config.
func Default() *Graph {
	defaultOnce.Do(func() {
		defaultGraph = New(Options{})
	})
	return defaultGraph
}

func (g *Graph) DB() (*database.Handle, error)                   { return g.db.Get() }
func (g *Graph) Users() (*services.UserService, error)           { return g.users.Get() }
func (g *Graph) Migrations() (*services.MigrationService, error) { return g.migrations.Get() }
func (g *Graph) UserHandler() (*handlers.UserHandler, error)     { return g.userHandler.Get() }
func (g *Graph) HomeHandler() (*handlers.HomeHandler, error)     { return g.homeHandler.Get() }
func (g *Graph) UserRoute() (*router.Route, error)               { return g.userRoute.Get() }
func (g *Graph) HelloRoute() (*router.Route, error)              { return g.helloRoute.Get() }
func (g *Graph) Router() (*router.Router, error)                 { return g.router.Get() }

// App returns the fully wired HTTP handler.
func (g *Graph) App() (http.Handler, error) { return g.app.Get() }

// Bindings reports which components have been built so far.
func (g *Graph) Bindings() []container.Binding { return g.c.Bindings() }

// Close releases the storage handle if it was ever opened.
func (g *Graph) Close() error {
	db, ok := g.db.Peek()
	if !ok {
		return nil
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("graph: close db: %w", err)
	}
	return nil
}
