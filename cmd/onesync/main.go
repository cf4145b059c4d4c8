// =================================================================
//
// Copyright (c) the onesync contributors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/onesync/onesync/pkg/filter"
	"github.com/onesync/onesync/pkg/lfs"
	"github.com/onesync/onesync/pkg/log"
	"github.com/onesync/onesync/pkg/manifest"
	"github.com/onesync/onesync/pkg/sync"
	"github.com/onesync/onesync/pkg/ts"
)

const (
	OneSyncVersion = "0.1.0"
)

// Sync Flags
const (
	flagSyncInterval   = "sync-interval"
	flagRunOnce        = "run-once"
	flagFileExtensions = "file-extensions"
	flagExtensionMode  = "extension-mode"
	flagFlattenOutput  = "flatten-output"
	flagStateDir       = "state-dir"
	flagThreads        = "threads"
	//
	flagTimeLayout = "time-layout"
	flagTimeZone   = "time-zone"
)

// Sync Defaults
const (
	DefaultSyncInterval = 60
	DefaultStateDirName = ".onesync"
)

// Log Flags
const (
	flagLogPath  = "log-path"
	flagLogPerm  = "log-perm"
	flagLogLevel = "log-level"
)

func initSyncFlags(flag *pflag.FlagSet) {
	flag.Int(flagSyncInterval, DefaultSyncInterval, "number of seconds to wait between scans in continuous mode")
	flag.Bool(flagRunOnce, false, "perform exactly one scan and then exit")
	flag.StringP(flagFileExtensions, "e", "", "a comma-separated list of file extensions to filter on.  An empty list disables filtering.")
	flag.String(flagExtensionMode, string(filter.ModeInclude), "how to apply the extension list.  Either include or exclude.")
	flag.Bool(flagFlattenOutput, false, "copy every file directly into the destination root, discarding directory structure")
	flag.String(flagStateDir, "", "directory holding the copy manifest.  Defaults to DESTINATION/"+DefaultStateDirName+".")
	flag.Int(flagThreads, 1, "maximum number of files processed in parallel.  Use -1 for the number of CPUs.")
	flag.StringP(flagTimeLayout, "t", "Default", "the layout to use for timestamps in scan summaries.  Use go layout format, or the name of a layout.  Use onesync layouts to show all named layouts.")
	flag.StringP(flagTimeZone, "z", "Local", "the timezone to use for timestamps in scan summaries")
}

func initLogFlags(flag *pflag.FlagSet) {
	flag.String(flagLogPath, "-", "path to the log output.  Defaults to the operating system's stdout device.")
	flag.String(flagLogPerm, "0600", "file permissions for log output file as unix file mode.")
	flag.String(flagLogLevel, "INFO", "minimum log level.  One of DEBUG, INFO, WARN, or ERROR.")
}

func initSyncCommandFlags(flag *pflag.FlagSet) {
	initSyncFlags(flag)
	initLogFlags(flag)
}

func initViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	err := v.BindPFlags(cmd.Flags())
	if err != nil {
		return v, fmt.Errorf("error binding flag set to viper: %w", err)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv() // set environment variables to overwrite config
	return v, nil
}

func checkLogConfig(v *viper.Viper, args []string) error {
	logPath := v.GetString(flagLogPath)
	if len(logPath) == 0 {
		return fmt.Errorf("log path is missing")
	}
	logPerm := v.GetString(flagLogPerm)
	if len(logPerm) == 0 {
		return fmt.Errorf("log perm is missing")
	}
	_, err := strconv.ParseUint(logPerm, 8, 32)
	if err != nil {
		return fmt.Errorf("invalid format for log perm: %s", logPerm)
	}
	if _, err := log.ParseLevel(v.GetString(flagLogLevel)); err != nil {
		return fmt.Errorf("error with log configuration: %w", err)
	}
	return nil
}

func checkSyncConfig(v *viper.Viper, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expecting 2 positional arguments for source and destination, but found %d arguments", len(args))
	}

	sourcePath := strings.TrimPrefix(args[0], "file://")
	destinationPath := strings.TrimPrefix(args[1], "file://")

	sourceAbsolutePath, err := filepath.Abs(sourcePath)
	if err != nil {
		return fmt.Errorf("error creating absolute path for source: %q", sourcePath)
	}
	destinationAbsolutePath, err := filepath.Abs(destinationPath)
	if err != nil {
		return fmt.Errorf("error creating absolute path for destination: %q", destinationPath)
	}

	// check for cycle errors
	if err := lfs.Check(sourceAbsolutePath, destinationAbsolutePath); err != nil {
		return err
	}

	if interval := v.GetInt(flagSyncInterval); interval < 1 {
		return fmt.Errorf("sync interval %d is invalid, expecting a positive number of seconds", interval)
	}

	if threads := v.GetInt(flagThreads); threads == 0 {
		return fmt.Errorf("threads cannot be zero")
	}

	if _, err := filter.ParseMode(v.GetString(flagExtensionMode)); err != nil {
		return err
	}

	if _, err := ts.ParseLocation(v.GetString(flagTimeZone)); err != nil {
		return fmt.Errorf("error parsing time zone location %q: %w", v.GetString(flagTimeZone), err)
	}

	if err := checkLogConfig(v, args); err != nil {
		return err
	}

	return nil
}

func initLogger(path string, perm string, level log.Level) (*log.SimpleLogger, error) {

	if path == os.DevNull {
		return log.NewSimpleLoggerWithLevel(io.Discard, level), nil
	}

	if path == "-" {
		return log.NewSimpleLoggerWithLevel(os.Stdout, level), nil
	}

	fileMode := os.FileMode(0600)

	if len(perm) > 0 {
		fm, err := strconv.ParseUint(perm, 8, 32)
		if err != nil {
			return nil, fmt.Errorf("error parsing file permissions for log file from %q", perm)
		}
		fileMode = os.FileMode(fm)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, fileMode)
	if err != nil {
		return nil, fmt.Errorf("error opening log file %q: %w", path, err)
	}

	return log.NewSimpleLoggerWithLevel(f, level), nil
}

func parseExtensions(value string) []string {
	extensions := []string{}
	for _, extension := range strings.Split(value, ",") {
		extension = strings.TrimSpace(extension)
		if len(extension) == 0 {
			continue
		}
		extensions = append(extensions, extension)
	}
	return extensions
}

func main() {
	rootCommand := &cobra.Command{
		Use:                   `onesync [flags]`,
		DisableFlagsInUseLine: true,
		Short: strings.Join([]string{
			"onesync is a one-way, idempotent file replicator.",
			"It scans a source directory and copies every file whose content it has never copied before to a destination directory.",
			"Copied content is recorded in a durable manifest, so renaming or deleting files at either end never triggers a second copy.",
		}, "\n"),
	}

	layoutsCommand := &cobra.Command{
		Use:                   `layouts`,
		DisableFlagsInUseLine: true,
		Short:                 "show supported timestamp layouts",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := make([]string, 0, len(ts.NamedLayouts))
			for name := range ts.NamedLayouts {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("%s: %s\n", name, ts.NamedLayouts[name])
			}
			return nil
		},
	}

	syncCommand := &cobra.Command{
		Use:                   "sync SOURCE DESTINATION",
		DisableFlagsInUseLine: true,
		Short:                 "sync",
		Long:                  "copy files from the source directory to the destination directory, once per distinct content value",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {

			ctx := cmd.Context()

			v, err := initViper(cmd)
			if err != nil {
				return fmt.Errorf("error initializing viper: %w", err)
			}

			if errConfig := checkSyncConfig(v, args); errConfig != nil {
				return errConfig
			}

			logLevel, err := log.ParseLevel(v.GetString(flagLogLevel))
			if err != nil {
				return err
			}

			logger, err := initLogger(v.GetString(flagLogPath), v.GetString(flagLogPerm), logLevel)
			if err != nil {
				return fmt.Errorf("error initializing logger: %w", err)
			}

			sourcePath, err := filepath.Abs(strings.TrimPrefix(args[0], "file://"))
			if err != nil {
				return fmt.Errorf("error creating absolute path for source: %q", args[0])
			}

			destinationPath, err := filepath.Abs(strings.TrimPrefix(args[1], "file://"))
			if err != nil {
				return fmt.Errorf("error creating absolute path for destination: %q", args[1])
			}

			syncInterval := time.Duration(v.GetInt(flagSyncInterval)) * time.Second
			runOnce := v.GetBool(flagRunOnce)
			flattenOutput := v.GetBool(flagFlattenOutput)

			extensionMode, err := filter.ParseMode(v.GetString(flagExtensionMode))
			if err != nil {
				return err
			}
			fileExtensions := parseExtensions(v.GetString(flagFileExtensions))

			threads := v.GetInt(flagThreads)
			if threads == -1 {
				threads = runtime.NumCPU()
			}

			stateDir := v.GetString(flagStateDir)
			if len(stateDir) == 0 {
				stateDir = filepath.Join(destinationPath, DefaultStateDirName)
			}

			timeLayout := ts.ParseLayout(v.GetString(flagTimeLayout))
			timeZone, err := ts.ParseLocation(v.GetString(flagTimeZone))
			if err != nil {
				return fmt.Errorf("error parsing time zone location %q: %w", v.GetString(flagTimeZone), err)
			}

			store, err := manifest.Open(afero.NewOsFs(), stateDir)
			if err != nil {
				// a degraded manifest would cause duplicate copies on every
				// scan, so refuse to start without one
				return fmt.Errorf("error opening manifest at %q: %w", stateDir, err)
			}
			defer func() {
				_ = store.Close()
			}()

			knownPaths, knownHashes := store.Len()

			_ = logger.Info("Configuration", map[string]interface{}{
				"source":          sourcePath,
				"destination":     destinationPath,
				"state_dir":       stateDir,
				"sync_interval":   syncInterval.String(),
				"run_once":        runOnce,
				"file_extensions": fileExtensions,
				"extension_mode":  string(extensionMode),
				"flatten_output":  flattenOutput,
				"threads":         threads,
				"known_paths":     knownPaths,
				"known_hashes":    knownHashes,
			})

			engine := sync.NewEngine(&sync.EngineInput{
				SourceFileSystem:      lfs.NewReadOnlyLocalFileSystem(sourcePath),
				DestinationFileSystem: lfs.NewLocalFileSystem(destinationPath),
				Manifest:              store,
				Filter:                filter.New(fileExtensions, extensionMode),
				FlattenOutput:         flattenOutput,
				MaxThreads:            threads,
				Logger:                logger,
			})

			if err := sync.Run(ctx, &sync.RunInput{
				Engine:     engine,
				Interval:   syncInterval,
				RunOnce:    runOnce,
				Logger:     logger,
				TimeLayout: timeLayout,
				TimeZone:   timeZone,
			}); err != nil {
				_ = logger.Error("Error synchronizing", map[string]interface{}{
					"source":      sourcePath,
					"destination": destinationPath,
					"err":         err.Error(),
				})
				_ = store.Close()
				os.Exit(1)
			}

			_ = logger.Info("Done synchronizing", map[string]interface{}{
				"source":      sourcePath,
				"destination": destinationPath,
			})

			return nil
		},
	}
	initSyncCommandFlags(syncCommand.Flags())

	versionCommand := &cobra.Command{
		Use:                   `version`,
		DisableFlagsInUseLine: true,
		Short:                 "show version",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(OneSyncVersion)
			return nil
		},
	}

	rootCommand.AddCommand(layoutsCommand, syncCommand, versionCommand)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCommand.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "onesync: "+err.Error())
		fmt.Fprintln(os.Stderr, "Try \"onesync --help\" for more information.")
		os.Exit(1)
	}
}
