package agents_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/lvchiyang/aiteacher/agents"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type stubAgent struct {
	name   string
	output string
	err    error
	inputs []string
}

func (s *stubAgent) Name() string        { return s.name }
func (s *stubAgent) Description() string { return s.name + " agent" }

func (s *stubAgent) RunOnce(_ context.Context, input string) (string, error) {
	s.inputs = append(s.inputs, input)
	return s.output, s.err
}

func TestRouter_Route(t *testing.T) {
	teaching := &stubAgent{name: "teaching"}
	quiz := &stubAgent{name: "testing"}
	secretary := &stubAgent{name: "secretary"}

	r := agents.NewRouter(secretary,
		agents.Route{Agent: teaching, Keywords: []string{"学习", "explain"}},
		agents.Route{Agent: quiz, Keywords: []string{"测试", "", "Quiz"}},
		agents.Route{Agent: secretary, Keywords: []string{"计划"}},
	)

	assert.Equal(t, agents.IAgent(teaching), r.Route("我想学习分数"))
	assert.Equal(t, agents.IAgent(teaching), r.Route("Please EXPLAIN fractions"))
	assert.Equal(t, agents.IAgent(quiz), r.Route("give me a quiz"))
	// first matching route wins
	assert.Equal(t, agents.IAgent(teaching), r.Route("学习之后测试"))
	assert.Equal(t, agents.IAgent(secretary), r.Route("你好"))

	assert.Equal(t, []agents.IAgent{teaching, quiz, secretary}, r.Agents())
	assert.Equal(t, "- `teaching`: teaching agent\n- `testing`: testing agent\n- `secretary`: secretary agent\n",
		agents.GetDescriptions(r.Agents()...))
}

func TestRouter_Handle(t *testing.T) {
	ctx := context.Background()

	ok := &stubAgent{name: "teaching", output: "分数是整体的一部分"}
	failing := &stubAgent{name: "testing", err: errors.New("no questions")}
	r := agents.NewRouter(ok, agents.Route{Agent: failing, Keywords: []string{"测试"}})

	assert.Equal(t, "分数是整体的一部分", r.Handle(ctx, "讲解分数"))
	assert.Equal(t, []string{"讲解分数"}, ok.inputs)
	assert.Equal(t, "抱歉，在处理您的请求时出现了问题: no questions", r.Handle(ctx, "测试一下"))

	assert.Equal(t, "抱歉，没有可以处理您请求的助手。", agents.NewRouter(nil).Handle(ctx, "hi"))
}

func TestRouter_HandleModelUnavailable(t *testing.T) {
	mockLLM := newMockModel(t)
	mockLLM.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("down"))

	r := agents.NewRouter(agents.New(mockLLM))
	assert.Equal(t, agents.ModelUnavailableResponse, r.Handle(context.Background(), "hi"))
}
