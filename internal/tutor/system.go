package tutor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/lvchiyang/aiteacher/agents"
	"github.com/lvchiyang/aiteacher/pkg/llmfactory"
	"github.com/lvchiyang/aiteacher/tools"
)

var logger = xlog.NewPackageLogger("github.com/lvchiyang/aiteacher", "tutor")

// Agent names
const (
	TeachingAgent  = "TeachingAgent"
	TestingAgent   = "TestingAgent"
	SecretaryAgent = "SecretaryAgent"
	ParentAgent    = "ParentAgent"
)

// Routing keywords
var (
	TeachingKeywords  = []string{"学习", "教学", "讲解", "解释"}
	TestingKeywords   = []string{"测试", "练习", "题目", "考试"}
	SecretaryKeywords = []string{"计划", "安排", "进度"}
	ParentKeywords    = []string{"报告", "家长", "情况"}
)

// ExitWords end the chat, compared case-insensitive.
var ExitWords = []string{"退出", "quit", "exit", "bye"}

// System is the multi-agent tutor: the agents and the router between them.
type System struct {
	agents []*agents.Agent
	router *agents.Router
	// Hooks run around each request, e.g. to start and end a scratchpad run.
	BeforeRequest func(ctx context.Context) context.Context
	AfterRequest  func(ctx context.Context)
}

// NewSystem creates the tutor agents with the models of the factory.
// The options are applied to every agent.
func NewSystem(factory llmfactory.Factory, preferredModel string, opts ...agents.Option) (*System, error) {
	gen := factory.Generation()

	build := func(name, description string, maxIterations int, list []*tools.Tool) (*agents.Agent, error) {
		var preferred []string
		if preferredModel != "" {
			preferred = append(preferred, preferredModel)
		}
		model, err := factory.AgentModel(name, preferred...)
		if err != nil {
			return nil, errors.WithMessagef(err, "failed to create model for %s", name)
		}
		agentOpts := append([]agents.Option{
			agents.WithGeneration(gen),
			agents.WithMaxToolIterations(maxIterations),
		}, opts...)

		a := agents.New(model, agentOpts...).
			WithName(name).
			WithDescription(description)
		for _, t := range list {
			if err := a.AddTool(t); err != nil {
				return nil, err
			}
		}
		return a, nil
	}

	teaching, err := build(TeachingAgent, "教学代理，负责知识点讲解和例题演示", 3, TeachingTools())
	if err != nil {
		return nil, err
	}
	quiz, err := build(TestingAgent, "检验代理，负责出题和检验学习效果", 3, TestingTools())
	if err != nil {
		return nil, err
	}
	secretary, err := build(SecretaryAgent, "教秘代理，负责整体教学计划和进度管理", 2, SecretaryTools())
	if err != nil {
		return nil, err
	}
	parent, err := build(ParentAgent, "家长代理，负责向家长报告学习情况", 2, ParentTools())
	if err != nil {
		return nil, err
	}

	s := &System{
		agents: []*agents.Agent{teaching, quiz, secretary, parent},
		router: agents.NewRouter(secretary,
			agents.Route{Agent: teaching, Keywords: TeachingKeywords},
			agents.Route{Agent: quiz, Keywords: TestingKeywords},
			agents.Route{Agent: secretary, Keywords: SecretaryKeywords},
			agents.Route{Agent: parent, Keywords: ParentKeywords},
		),
	}

	names := make([]string, len(s.agents))
	for i, a := range s.agents {
		names[i] = a.Name()
	}
	logger.KV(xlog.INFO,
		"status", "created_agents",
		"count", len(s.agents),
		"agents", names,
	)
	return s, nil
}

// Agents returns the agents of the system.
func (s *System) Agents() []*agents.Agent {
	return s.agents
}

// Router returns the router of the system.
func (s *System) Router() *agents.Router {
	return s.router
}

// Handle routes the request to an agent and returns its response.
func (s *System) Handle(ctx context.Context, input string) string {
	if s.BeforeRequest != nil {
		ctx = s.BeforeRequest(ctx)
	}
	output := s.router.Handle(ctx, input)
	if s.AfterRequest != nil {
		s.AfterRequest(ctx)
	}
	return output
}

// Banner writes the welcome text with the list of agents.
func (s *System) Banner(out io.Writer) {
	line := strings.Repeat("=", 60)
	fmt.Fprintln(out, line)
	fmt.Fprintln(out, "欢迎使用AI教师系统!")
	fmt.Fprintln(out, line)
	fmt.Fprintln(out, "系统包含以下AI助手:")
	for _, a := range s.agents {
		fmt.Fprintf(out, "- %s: %s\n", a.Name(), a.Description())
	}
	fmt.Fprintln(out, line)
	fmt.Fprintln(out, "请输入您的学习需求，输入'退出'结束对话")
	fmt.Fprintln(out, line)
}

// Run reads requests from in, one per line, and writes the responses to out
// until an exit word, the end of input or the context is done.
func (s *System) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	s.Banner(out)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\n您: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return errors.WithStack(err)
			}
			fmt.Fprintln(out, "\n\nAI教师: 再见!")
			return nil
		}
		if err := ctx.Err(); err != nil {
			return errors.WithStack(err)
		}

		input := strings.TrimSpace(scanner.Text())
		if slices.Contains(ExitWords, strings.ToLower(input)) {
			fmt.Fprintln(out, "AI教师: 谢谢使用，再见!")
			return nil
		}
		if input == "" {
			fmt.Fprintln(out, "AI教师: 请输入有效内容")
			continue
		}

		fmt.Fprintf(out, "AI教师: %s\n", s.Handle(ctx, input))
	}
}
