package application

import (
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type rosterService struct{ name string }

type stubController struct{ key string }

func (c *stubController) Register(r *mux.Router) {
	r.HandleFunc(c.key, func(w http.ResponseWriter, r *http.Request) {})
}
func (c *stubController) Key() string { return c.key }

func TestApplication_ServiceRegistry(t *testing.T) {
	app := New(&ApplicationOptions{})
	svc := &rosterService{name: "roster"}
	app.RegisterServices(svc)

	got := app.Service(rosterService{}).(*rosterService)
	require.Same(t, svc, got)
	require.Panics(t, func() { app.Service(stubController{}) })
}

func TestApplication_ControllersOrderedByKey(t *testing.T) {
	app := New(&ApplicationOptions{})
	app.RegisterControllers(&stubController{key: "/b"}, &stubController{key: "/a"}, &stubController{key: "/b"})

	controllers := app.Controllers()
	require.Len(t, controllers, 2)
	require.Equal(t, "/a", controllers[0].Key())
	require.Equal(t, "/b", controllers[1].Key())
	require.NotNil(t, app.EventPublisher())
	require.NotNil(t, app.Logger())
}
