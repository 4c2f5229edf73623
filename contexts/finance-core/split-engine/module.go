package splitengine

import (
	"log/slog"
	"strings"

	httpadapter "prism/contexts/finance-core/split-engine/adapters/http"
	"prism/contexts/finance-core/split-engine/adapters/memory"
	"prism/contexts/finance-core/split-engine/application/commands"
	"prism/contexts/finance-core/split-engine/application/queries"
	"prism/contexts/finance-core/split-engine/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Commands commands.UseCase
	Queries  queries.UseCase
	Store    *memory.Store
	Treasury *memory.Treasury
}

type Dependencies struct {
	Repository      ports.Repository
	Treasury        ports.Treasury
	Outbox          ports.OutboxWriter
	Clock           ports.Clock
	IDGen           ports.IDGenerator
	AdminID         string
	VaultAccount    string
	MinPayoutAmount int64
	Logger          *slog.Logger
}

func NewModule(deps Dependencies) Module {
	commandUseCase := commands.UseCase{
		Repository:      deps.Repository,
		Treasury:        deps.Treasury,
		Clock:           deps.Clock,
		IDGen:           deps.IDGen,
		Outbox:          deps.Outbox,
		AdminID:         deps.AdminID,
		VaultAccount:    deps.VaultAccount,
		MinPayoutAmount: deps.MinPayoutAmount,
		Logger:          deps.Logger,
	}
	queryUseCase := queries.UseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Commands: commandUseCase,
			Queries:  queryUseCase,
			Logger:   deps.Logger,
		},
		Commands: commandUseCase,
		Queries:  queryUseCase,
	}
}

// InMemoryOptions seeds the in-memory module used by tests and local runs.
type InMemoryOptions struct {
	AdminID         string
	VaultAccount    string
	FeeRecipient    string
	FeeRateBps      int64
	MinPayoutAmount int64
}

func NewInMemoryModule(opts InMemoryOptions, logger *slog.Logger) Module {
	if strings.TrimSpace(opts.AdminID) == "" {
		opts.AdminID = "admin"
	}
	if strings.TrimSpace(opts.VaultAccount) == "" {
		opts.VaultAccount = "split-engine-vault"
	}
	if strings.TrimSpace(opts.FeeRecipient) == "" {
		opts.FeeRecipient = "platform-fees"
	}

	store := memory.NewStore(opts.FeeRateBps, opts.FeeRecipient)
	treasury := memory.NewTreasury()
	module := NewModule(Dependencies{
		Repository:      store,
		Treasury:        treasury,
		Outbox:          store,
		Clock:           store,
		IDGen:           store,
		AdminID:         opts.AdminID,
		VaultAccount:    opts.VaultAccount,
		MinPayoutAmount: opts.MinPayoutAmount,
		Logger:          logger,
	})
	module.Store = store
	module.Treasury = treasury
	return module
}
