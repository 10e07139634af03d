package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/dyluth/bored/internal/config"
	"github.com/dyluth/bored/internal/directory"
	"github.com/dyluth/bored/internal/logger"
	"github.com/dyluth/bored/internal/printer"
	"github.com/dyluth/bored/internal/resolver"
	"github.com/dyluth/bored/pkg/address"
	"github.com/dyluth/bored/pkg/client"
	"github.com/dyluth/bored/pkg/store"
	"github.com/dyluth/bored/pkg/store/redisstore"
	"github.com/dyluth/bored/pkg/store/sqlitestore"
)

// environment is what every command that talks to a store needs
type environment struct {
	config *config.BoredConfig
	logger *zap.Logger
	store  store.Store
	client *client.Client
	closer io.Closer
}

// loadConfig loads --config, falling back to defaults when it does not exist
func loadConfig() (*config.BoredConfig, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, printer.Error(
			"invalid configuration",
			fmt.Sprintf("Could not load %s: %v", configPath, err),
			[]string{"Fix the file, or remove it to use the defaults"},
		)
	}
	return cfg, nil
}

// setup loads the configuration and connects to the configured store
func setup(ctx context.Context, opts ...client.Option) (*environment, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.JSON)

	env := &environment{config: cfg, logger: log}
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		s, err := sqlitestore.Open(cfg.Store.SQLitePath, sqlitestore.WithCapacity(cfg.Store.CapacityBytes))
		if err != nil {
			return nil, printer.ErrorWithContext(
				"failed to open store",
				err.Error(),
				map[string]string{"sqlite_path": cfg.Store.SQLitePath},
				[]string{"Check the path is writable"},
			)
		}
		env.store, env.closer = s, s

	default:
		s, err := redisstore.NewFromURL(cfg.Store.RedisURL, cfg.Store.Namespace, redisstore.WithCapacity(cfg.Store.CapacityBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to create redis store: %w", err)
		}
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, printer.ErrorWithContext(
				"Redis connection failed",
				fmt.Sprintf("Could not connect to Redis at %s", cfg.Store.RedisURL),
				map[string]string{"error": err.Error()},
				[]string{"Check Redis is running and store.redis_url in bored.yml"},
			)
		}
		env.store, env.closer = s, s
	}

	env.client = client.New(env.store, append([]client.Option{client.WithLogger(log)}, opts...)...)
	return env, nil
}

// Close releases the store connection and flushes the logger
func (e *environment) Close() {
	e.closer.Close()
	_ = e.logger.Sync()
}

// loadDirectory reads the configured board directory
func loadDirectory(cfg *config.BoredConfig) (*directory.Directory, error) {
	dir, err := directory.Load(cfg.DirectoryPath)
	if err != nil {
		return nil, printer.ErrorWithContext(
			"invalid directory",
			err.Error(),
			map[string]string{"directory_path": cfg.DirectoryPath},
			[]string{"Fix or remove the directory file"},
		)
	}
	return dir, nil
}

// resolveAddress turns the optional first argument into an address. The
// argument may be a directory name or an address; without one the home bored
// is used.
func resolveAddress(cfg *config.BoredConfig, args []string) (address.Address, error) {
	dir, err := loadDirectory(cfg)
	if err != nil {
		return nil, err
	}

	if len(args) == 0 {
		addr, err := dir.HomeAddress()
		if errors.Is(err, directory.ErrNoHome) {
			return nil, printer.Error(
				"no bored given",
				"No address was given and no home bored is set.",
				[]string{
					"Pass an address:\n  bored show bored://<key>",
					"Set a home bored:\n  bored directory home <name>",
				},
			)
		}
		return addr, err
	}

	addr, err := dir.Resolve(args[0])
	if err == nil {
		return addr, nil
	}

	// Fall back to a short key prefix of a saved bored
	addr, err = resolver.ResolveShortKey(dir.Addresses(), args[0])
	var ambiguous *resolver.AmbiguousError
	if errors.As(err, &ambiguous) {
		return nil, printer.Error("ambiguous short key", resolver.FormatAmbiguousError(ambiguous), nil)
	}
	if err != nil {
		return nil, printer.Error(
			"not a bored address",
			fmt.Sprintf("'%s' is neither a directory entry nor a bored address.", args[0]),
			[]string{
				"Addresses look like bored://<64 hex characters> or bored://some.name",
				"A saved bored can also be given by the first 6 or more characters of its key",
			},
		)
	}
	return addr, nil
}

// fetchError explains a failed load of the bored at addr
func fetchError(addr address.Address, err error) error {
	switch {
	case store.IsNotFound(err):
		return printer.Error(
			"bored not found",
			fmt.Sprintf("Nothing is stored at %s.", addr),
			[]string{fmt.Sprintf("Create it first:\n  bored create --name <name> --address %s", addr)},
		)
	case errors.Is(err, client.ErrDecryption), errors.Is(err, client.ErrBinary), errors.Is(err, client.ErrDeserialization):
		return printer.ErrorWithContext(
			"unreadable bored",
			"Something is stored at this address but it is not a bored this version can read.",
			map[string]string{"address": addr.String(), "error": err.Error()},
			nil,
		)
	default:
		return fmt.Errorf("failed to fetch bored: %w", err)
	}
}
