package providers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/km-arc/go-injector/app/services"
	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/container"
	gohttp "github.com/km-arc/go-injector/framework/http"
	"github.com/km-arc/go-injector/framework/routing"
)

// RouteServiceProvider mounts the application routes once the router and
// the profile bindings are in place.
type RouteServiceProvider struct {
	container.BaseProvider
}

func (p *RouteServiceProvider) Register(*container.Container) {}

func (p *RouteServiceProvider) Boot(app *container.Container) error {
	router, err := container.Make[*routing.Router](app)
	if err != nil {
		return err
	}
	cfg, err := container.Make[*config.Config](app)
	if err != nil {
		return err
	}

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		gohttp.NewResponse(w).Success(map[string]any{
			"app":     cfg.App.Name,
			"profile": cfg.Container.Profile,
		})
	})
	router.Get("/run", runService)
	return nil
}

// runService resolves the AppService twice on the request resolver and
// reports the identity of what it got back, so lifetimes can be observed
// across requests.
func runService(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	first, err := gohttp.Make[services.AppService](r)
	if err != nil {
		resolveFailed(res, err)
		return
	}
	second, err := gohttp.Make[services.AppService](r)
	if err != nil {
		resolveFailed(res, err)
		return
	}
	first.Run()

	body := map[string]any{
		"service":      identity(first),
		"same_service": first == second,
	}
	if b, ok := first.(*services.BackendService); ok {
		b2 := second.(*services.BackendService)
		body["logger"] = identity(b.Logger)
		body["database"] = identity(b.DB)
		body["same_database"] = b.DB == b2.DB
	}
	res.Success(body)
}

// resolveFailed answers 501 when the profile binds no app service at all.
func resolveFailed(res *gohttp.Response, err error) {
	if errors.Is(err, container.ErrUnregisteredCapability) {
		res.Error(http.StatusNotImplemented, err.Error())
		return
	}
	res.ServerError(err.Error())
}

func identity(v any) string { return fmt.Sprintf("%T@%p", v, v) }
