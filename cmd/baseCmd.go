package cmd

import (
	"go.uber.org/fx"

	"retail_backoffice/bundlefx/infrafx"
	"retail_backoffice/pkg/server"
)

func provideServerConfig(name string, port int) func() server.ServerConfig {
	return func() server.ServerConfig {
		return server.ServerConfig{Name: name, Port: port}
	}
}

// newApp builds a service around the shared infrastructure.
func newApp(name string, port int, modules ...fx.Option) *fx.App {
	options := append([]fx.Option{
		fx.Provide(provideServerConfig(name, port)),
		infrafx.Module,
	}, modules...)
	options = append(options, infrafx.Serve)
	return fx.New(options...)
}
