package clubs

import (
	"github.com/iota-uz/clubs/modules/clubs/handlers"
	"github.com/iota-uz/clubs/modules/clubs/infrastructure/extraction"
	"github.com/iota-uz/clubs/modules/clubs/infrastructure/persistence"
	"github.com/iota-uz/clubs/modules/clubs/presentation/controllers"
	"github.com/iota-uz/clubs/modules/clubs/services"
	"github.com/iota-uz/clubs/pkg/application"
	"github.com/iota-uz/clubs/pkg/configuration"
)

type ModuleOptions struct {
	Import          configuration.ImportOptions
	UploadsPath     string
	MaxUploadSize   int64
	MaxUploadMemory int64
}

// OptionsFromConfig lifts the clubs settings out of the process configuration.
func OptionsFromConfig(conf *configuration.Configuration) *ModuleOptions {
	return &ModuleOptions{
		Import:          conf.Import,
		UploadsPath:     conf.UploadsPath,
		MaxUploadSize:   conf.MaxUploadSize,
		MaxUploadMemory: conf.MaxUploadMemory,
	}
}

func NewModule(opts *ModuleOptions) application.Module {
	if opts == nil {
		opts = &ModuleOptions{}
	}
	return &Module{opts: opts}
}

type Module struct {
	opts *ModuleOptions
}

func (m *Module) Register(app application.Application) error {
	studentRepo := persistence.NewStudentRepository()
	clubRepo := persistence.NewClubRepository()
	membershipRepo := persistence.NewMembershipRepository()
	grades := m.opts.Import.Grades()

	app.RegisterServices(
		services.NewImportService(
			studentRepo,
			clubRepo,
			membershipRepo,
			m.extractor(app),
			app.EventPublisher(),
			app.Logger(),
			services.ImportOptions{
				Threshold:      m.opts.Import.MatchThreshold,
				ExcludedGrades: grades,
			},
		),
		services.NewMembershipService(clubRepo, studentRepo, membershipRepo, app.EventPublisher()),
		services.NewStudentService(studentRepo, grades),
	)

	app.RegisterControllers(
		controllers.NewImportAPIController(app, controllers.ImportAPIOptions{
			UploadsPath:     m.opts.UploadsPath,
			MaxUploadSize:   m.opts.MaxUploadSize,
			MaxUploadMemory: m.opts.MaxUploadMemory,
			AllowedTypes:    m.opts.Import.MimeTypes(),
		}),
		controllers.NewMembershipAPIController(app),
	)

	handlers.RegisterImportEventHandlers(app)
	return nil
}

func (m *Module) extractor(app application.Application) extraction.Extractor {
	if m.opts.Import.ExtractionURL == "" {
		return extraction.NewDefaultRouter(nil)
	}
	remote := extraction.NewRemoteExtractor(
		m.opts.Import.ExtractionURL,
		m.opts.Import.ExtractionTimeout,
		m.opts.Import.ExtractionRetryMax,
		app.Logger(),
	)
	return extraction.NewDefaultRouter(remote)
}

func (m *Module) Name() string {
	return "clubs"
}
