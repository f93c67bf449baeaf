package config

import (
	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/config"
	"github.com/evgeny-myasishchev/savings-ledger/pkg/version"
)

var appEnv = config.NewAppEnv(version.AppName)
var configBuilder = config.NewBuilder(appEnv)

var localParams = configBuilder.NewParamsBuilder(configBuilder.WithLocalSource())

// Secrets are taken from SSM outside of dev and test envs
var remoteParams = configBuilder.NewParamsBuilder(configBuilder.WithRemoteSource())

// Do not change vars below at runtime
var (
	LogLevel = localParams.NewParam("log/logLevel").String()

	StorageDriver    = localParams.NewParam("storage/driver").String()
	StorageDSN       = remoteParams.NewParam("storage/data-source-name").String()
	StorageAutoSetup = localParams.NewParam("storage/auto-setup").Bool()

	LedgerMaxAmount = localParams.NewParam("ledger/max-amount").Decimal()

	ServerPort = localParams.NewParam("server/port").Int()

	EventsBrokers = localParams.NewParam("events/brokers").String()
	EventsTopic   = localParams.NewParam("events/topic").String()

	IdempotencyDBPath = localParams.NewParam("idempotency/db-path").String()

	ClientAPI       = localParams.NewParam("client/api").String()
	ClientActorID   = localParams.NewParam("client/actor-id").Int()
	ClientActorRole = localParams.NewParam("client/actor-role").String()
)

// Log represents logger specific options
type Log struct {
	Level config.StringVal
}

// Storage represents storage settings
type Storage struct {
	Driver    config.StringVal
	DSN       config.StringVal
	AutoSetup config.BoolVal
}

// Ledger represents ledger core settings
type Ledger struct {
	// MaxAmount of a single entry or opening balance. Zero means default
	MaxAmount config.DecimalVal
}

// Server represents http server settings
type Server struct {
	Port config.IntVal
}

// Events represents entry events settings.
// Events are not published if no brokers configured
type Events struct {
	Brokers config.StringVal
	Topic   config.StringVal
}

// Idempotency represents settings of the idempotency keys store
type Idempotency struct {
	DBPath config.StringVal
}

// Client represents settings of the api client used by cli tools
type Client struct {
	API       config.StringVal
	ActorID   config.IntVal
	ActorRole config.StringVal
}

// AppConfig is a toplevel config structure
type AppConfig struct {
	Log         Log
	Storage     Storage
	Ledger      Ledger
	Server      Server
	Events      Events
	Idempotency Idempotency
	Client      Client
}

// LoadAppConfig will load and initialize app config structure
func LoadAppConfig() (*AppConfig, error) {
	cfg, err := configBuilder.LoadConfig()
	if err != nil {
		return nil, err
	}

	appCfg := AppConfig{
		Log: Log{
			Level: cfg.StringParam(LogLevel),
		},
		Storage: Storage{
			Driver:    cfg.StringParam(StorageDriver),
			DSN:       cfg.StringParam(StorageDSN),
			AutoSetup: cfg.BoolParam(StorageAutoSetup),
		},
		Ledger: Ledger{
			MaxAmount: cfg.DecimalParam(LedgerMaxAmount),
		},
		Server: Server{
			Port: cfg.IntParam(ServerPort),
		},
		Events: Events{
			Brokers: cfg.StringParam(EventsBrokers),
			Topic:   cfg.StringParam(EventsTopic),
		},
		Idempotency: Idempotency{
			DBPath: cfg.StringParam(IdempotencyDBPath),
		},
		Client: Client{
			API:       cfg.StringParam(ClientAPI),
			ActorID:   cfg.IntParam(ClientActorID),
			ActorRole: cfg.StringParam(ClientActorRole),
		},
	}

	return &appCfg, nil
}
