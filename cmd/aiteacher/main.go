package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/effective-security/xlog"
	"github.com/lvchiyang/aiteacher/agents"
	"github.com/lvchiyang/aiteacher/callbacks"
	"github.com/lvchiyang/aiteacher/chatmodel"
	"github.com/lvchiyang/aiteacher/internal/tutor"
	"github.com/lvchiyang/aiteacher/pkg/llmfactory"
	"github.com/lvchiyang/aiteacher/pkg/llms"
)

var logger = xlog.NewPackageLogger("github.com/lvchiyang/aiteacher", "aiteacher")

// defaultConfig is used when no config file is given.
func defaultConfig() *llmfactory.Config {
	return &llmfactory.Config{
		Providers: []*llmfactory.ProviderConfig{
			{
				Name:            "DASHSCOPE",
				Type:            string(llms.ProviderDashScope),
				DefaultModel:    "qwen-plus",
				AvailableModels: []string{"qwen-plus", "qwen-max", "qwen-turbo"},
			},
		},
		DefaultProvider: "DASHSCOPE",
	}
}

func main() {
	var (
		configFile = flag.String("config", "", "Path to the LLM providers config file, YAML or JSON")
		model      = flag.String("model", "", "Preferred model for all agents")
		verbose    = flag.Bool("verbose", false, "Print the agent steps and enable debug logging to stderr")
	)
	flag.Parse()

	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
	xlog.SetGlobalLogLevel(xlog.WARNING)
	if *verbose {
		xlog.SetGlobalLogLevel(xlog.DEBUG)
	}

	if err := run(*configFile, *model, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, model string, verbose bool) error {
	cfg := defaultConfig()
	if configFile != "" {
		loaded, err := llmfactory.LoadConfig(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	} else if os.Getenv("DASHSCOPE_API_KEY") == "" {
		fmt.Println("警告: 未设置DASHSCOPE_API_KEY环境变量，部分功能可能无法正常工作")
		fmt.Println("请设置DASHSCOPE_API_KEY环境变量以获得完整功能")
	}

	callback := callbacks.NewFanout(callbacks.NewPackageLogger(logger))
	var scratchpad *callbacks.Scratchpad
	if verbose {
		scratchpad = callbacks.NewScratchpad(callbacks.ModeVerbose)
		callback.Add(scratchpad)
	}

	system, err := tutor.NewSystem(llmfactory.New(cfg), model, agents.WithCallback(callback))
	if err != nil {
		return err
	}

	if scratchpad != nil {
		system.BeforeRequest = scratchpad.StartRun
		system.AfterRequest = func(ctx context.Context) {
			_, trace := scratchpad.EndRun(ctx)
			_, _ = os.Stderr.Write(trace)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// one chat per session
	ctx = chatmodel.WithChatContext(ctx, chatmodel.NewChatContext("", os.Getenv("USER")))
	return system.Run(ctx, os.Stdin, os.Stdout)
}
