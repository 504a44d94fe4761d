package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"mscript/internal/interp"
	"mscript/internal/parser"
	"mscript/internal/util"
)

var (
	// Version is stamped at build time.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
	help      bool
	version   bool
	// logging
	logLevel string
	logFile  string
	// config vars
	configPath string
	debugAST   bool
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.StringVar(&configPath, "config", "", "Path to a TOML configuration file")
	// parser config
	flag.BoolVar(&debugAST, "debug-ast", false, "Render the AST as a JSON file")
	// log config
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	flag.Parse()

	if version {
		printVersion()
		return
	}
	if help {
		printHelp()
		return
	}

	config := loadConfiguration()
	// flags win over the config file
	if logLevel != "" {
		config.LogLevel = logLevel
	}
	if logFile != "" {
		config.LogFile = logFile
	}
	if debugAST {
		config.DebugAST = true
	}

	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevelFromString(config.LogLevel),
	}
	logWriter := configureLogWriter(config.LogFile)
	defaultLogger := slog.New(slog.NewJSONHandler(logWriter, loggerOptions))
	slog.SetDefault(defaultLogger)

	fileName := flag.Arg(0)
	if fileName == "" {
		fmt.Fprintln(os.Stderr, "no script file given")
		printHelp()
		os.Exit(2)
	}

	if config.DebugAST {
		if err := renderASTDebug(fileName); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	result, err := interp.RunFile(fileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Program returned: %s\n", result.Inspect())
}

func loadConfiguration() util.Configuration {
	if configPath == "" {
		return util.DefaultConfiguration()
	}
	cfg, err := util.LoadConfiguration(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v; using defaults\n", err)
		return util.DefaultConfiguration()
	}
	return cfg
}

func renderASTDebug(fileName string) error {
	src, err := os.ReadFile(fileName)
	if err != nil {
		return err
	}
	mod, err := interp.Parse(string(src))
	if err != nil {
		return err
	}
	outPath := fileName + ".ast.json"
	if err := parser.WriteASTDebug(mod, outPath); err != nil {
		return err
	}
	slog.Info("AST rendered", slog.String("path", outPath))
	return nil
}

func configureLogWriter(logFile string) *os.File {
	var logWriter *os.File
	var err error
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log directory for '%s': %v; falling back to stderr\n", logFile, err)
			return os.Stderr
		}
		logWriter, err = os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file '%s': %v; falling back to stderr\n", logFile, err)
			logWriter = os.Stderr
		}
	} else {
		logWriter = os.Stderr
	}
	return logWriter
}

func printVersion() {
	fmt.Printf("mscript version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: mscript [options] filename

Options:
  -config <path>     Path to a TOML configuration file.
  -debug-ast         Render the AST as a JSON file next to the script.
  -help              Display this help information and exit.
  -version           Display version information and exit.
  -log-level <level> Set the log level: debug, info, warn, error. Default is 'info'.
  -log-file <path>   Specify a log file to write logs. Default is stderr.

Examples:
  mscript script.ms                 Execute the script and print what main returned
  mscript -log-level=debug script.ms

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
