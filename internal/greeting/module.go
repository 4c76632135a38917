package greeting

import (
	"github.com/shandysiswandi/healthmon/internal/greeting/inbound"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgrouter"
)

// DefaultMessage is served when modules.greeting.message is empty.
const DefaultMessage = "Hello from Flask!"

type Dependency struct {
	Config pkgconfig.Config
	Router *pkgrouter.Router
}

func New(dep Dependency) error {
	message := dep.Config.GetString("modules.greeting.message")
	if message == "" {
		message = DefaultMessage
	}

	inbound.RegisterHTTPEndpoint(dep.Router, message)

	return nil
}
