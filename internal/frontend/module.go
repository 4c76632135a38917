package frontend

import (
	"log/slog"

	"github.com/shandysiswandi/healthmon/internal/frontend/asset"
	"github.com/shandysiswandi/healthmon/internal/frontend/inbound"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgrouter"
)

// DefaultStaticDir is where the build output sits relative to the working directory.
const DefaultStaticDir = "../frontend/build"

type Dependency struct {
	Config pkgconfig.Config
	Router *pkgrouter.Router
}

func New(dep Dependency) error {
	dir := dep.Config.GetString("modules.frontend.static_dir")
	if dir == "" {
		dir = DefaultStaticDir
	}

	bundle := asset.NewDirBundle(dir)
	if !bundle.Exists(asset.IndexFile) {
		// Not fatal: the API keeps working and "/" answers 404 until the bundle is built.
		slog.Warn("frontend bundle has no index.html", "static_dir", dir)
	}

	inbound.RegisterHTTPEndpoint(dep.Router, bundle, inbound.Options{
		HistoryFallback: dep.Config.GetBool("modules.frontend.history_fallback"),
	})

	return nil
}
