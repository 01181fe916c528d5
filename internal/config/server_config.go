package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github/frak-labs/go-smart-wallet/internal/util"
)

// Chain holds the RPC endpoints of the single chain an account is bound to.
type Chain struct {
	// RPCURLs are tried in order, the first healthy one serves requests.
	RPCURLs []string
	// ChainID is optional, when 0 it is read from the node.
	ChainID uint64
	// DialTimeout bounds every initial connection attempt.
	DialTimeout time.Duration
}

// Registry holds the static contract addresses. Empty values fall back to
// the built-in Kernel v2 / EntryPoint v0.6 deployment.
type Registry struct {
	File                     string
	EntryPointAddress        string
	FactoryAddress           string
	AccountLogicAddress      string
	WebAuthnValidatorAddress string
	EcdsaValidatorAddress    string
	RIP7212ChainIDs          []uint64
}

type Pairing struct {
	WebSocketURL   string
	PingInterval   time.Duration
	MaxMissedPongs int
}

type Burner struct {
	KeystorePath   string
	DerivationPath string
}

type EchoServer struct {
	Debug                     bool
	ListenAddress             string
	EnableRecoverMiddleware   bool
	EnableRequestIDMiddleware bool
	EnableLoggerMiddleware    bool
}

type Metrics struct {
	Enabled bool
	Path    string
}

type LoggerServer struct {
	Level              zerolog.Level
	RequestLevel       zerolog.Level
	LogRequestBody     bool
	LogRequestHeader   bool
	PrettyPrintConsole bool
}

type Management struct {
	ProbeReadinessTimeout time.Duration
}

type Server struct {
	Chain      Chain
	Registry   Registry
	Pairing    Pairing
	Burner     Burner
	Echo       EchoServer
	Metrics    Metrics
	Logger     LoggerServer
	Management Management
}

// DefaultServiceConfigFromEnv returns the server config as parsed from environment variables
// and their respective defaults defined below.
func DefaultServiceConfigFromEnv() Server {
	// An `.env.local` file in the project root can override the currently set ENV variables.
	// It is never applied while running "go test".
	if !util.RunningInTest() {
		DotEnvTryLoad(filepath.Join(util.GetProjectRootDir(), ".env.local"), os.Setenv)
	}

	return Server{
		Chain: Chain{
			RPCURLs:     util.GetEnvAsStringArr("CHAIN_RPC_URLS", []string{"http://127.0.0.1:8545"}),
			ChainID:     util.GetEnvAsUint64("CHAIN_ID", 0),
			DialTimeout: util.GetEnvAsDuration("CHAIN_DIAL_TIMEOUT", 10*time.Second), //nolint:mnd
		},
		Registry: Registry{
			File:                     util.GetEnv("REGISTRY_FILE", ""),
			EntryPointAddress:        util.GetEnv("ENTRY_POINT_ADDRESS", ""),
			FactoryAddress:           util.GetEnv("KERNEL_FACTORY_ADDRESS", ""),
			AccountLogicAddress:      util.GetEnv("KERNEL_ACCOUNT_LOGIC_ADDRESS", ""),
			WebAuthnValidatorAddress: util.GetEnv("KERNEL_WEBAUTHN_VALIDATOR_ADDRESS", ""),
			EcdsaValidatorAddress:    util.GetEnv("KERNEL_ECDSA_VALIDATOR_ADDRESS", ""),
			RIP7212ChainIDs:          util.GetEnvAsUint64Arr("RIP7212_CHAIN_IDS", nil),
		},
		Pairing: Pairing{
			WebSocketURL:   util.GetEnv("PAIRING_WS_URL", ""),
			PingInterval:   util.GetEnvAsDuration("PAIRING_PING_INTERVAL", 5*time.Second), //nolint:mnd
			MaxMissedPongs: util.GetEnvAsInt("PAIRING_MAX_MISSED_PONGS", 5),              //nolint:mnd
		},
		Burner: Burner{
			KeystorePath:   util.GetEnv("BURNER_KEYSTORE_PATH", "burner.keystore.json"),
			DerivationPath: util.GetEnv("BURNER_DERIVATION_PATH", "m/44'/60'/0'/0/0"),
		},
		Echo: EchoServer{
			Debug:                     util.GetEnvAsBool("SERVER_ECHO_DEBUG", false),
			ListenAddress:             util.GetEnv("SERVER_ECHO_LISTEN_ADDRESS", ":8080"),
			EnableRecoverMiddleware:   util.GetEnvAsBool("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE", true),
			EnableRequestIDMiddleware: util.GetEnvAsBool("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE", true),
			EnableLoggerMiddleware:    util.GetEnvAsBool("SERVER_ECHO_ENABLE_LOGGER_MIDDLEWARE", true),
		},
		Metrics: Metrics{
			Enabled: util.GetEnvAsBool("SERVER_METRICS_ENABLED", true),
			Path:    util.GetEnv("SERVER_METRICS_PATH", "/metrics"),
		},
		Logger: LoggerServer{
			Level:              util.LogLevelFromString(util.GetEnv("LOGGER_LEVEL", zerolog.DebugLevel.String())),
			RequestLevel:       util.LogLevelFromString(util.GetEnv("LOGGER_REQUEST_LEVEL", zerolog.DebugLevel.String())),
			LogRequestBody:     util.GetEnvAsBool("LOGGER_LOG_REQUEST_BODY", false),
			LogRequestHeader:   util.GetEnvAsBool("LOGGER_LOG_REQUEST_HEADER", false),
			PrettyPrintConsole: util.GetEnvAsBool("LOGGER_PRETTY_PRINT_CONSOLE", false),
		},
		Management: Management{
			ProbeReadinessTimeout: util.GetEnvAsDuration("SERVER_MANAGEMENT_PROBE_READINESS_TIMEOUT_SEC", 4*time.Second), //nolint:mnd
		},
	}
}
