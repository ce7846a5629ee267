package tutor_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/lvchiyang/aiteacher/internal/tutor"
	"github.com/lvchiyang/aiteacher/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoke(t *testing.T, list []*tools.Tool, name, args string) (any, error) {
	t.Helper()
	reg, err := tools.NewRegistry(list...)
	require.NoError(t, err)
	tool, err := reg.Get(name)
	require.NoError(t, err)
	return tool.Invoke(context.Background(), tools.DecodeArguments(args))
}

func TestTeachingTools(t *testing.T) {
	t.Parallel()
	list := tutor.TeachingTools()

	out, err := invoke(t, list, "explain_concept", `{"concept":"勾股定理"}`)
	require.NoError(t, err)
	assert.Equal(t, &tutor.ExplainConceptOutput{
		Explanation: "勾股定理(中级): 直角三角形两条直角边的平方和等于斜边的平方。公式为: a² + b² = c²",
	}, out)

	out, err = invoke(t, list, "explain_concept", `{"concept":"函数","difficulty":"初级"}`)
	require.NoError(t, err)
	assert.Equal(t, "关于'函数'的初级解释: 这是一个重要的数学概念。", out.(*tutor.ExplainConceptOutput).Explanation)

	_, err = invoke(t, list, "explain_concept", `{}`)
	assert.True(t, errors.Is(err, tools.ErrFailedUnmarshalInput))

	out, err = invoke(t, list, "give_example", `{"concept":"一元二次方程","difficulty":"困难"}`)
	require.NoError(t, err)
	assert.Equal(t, "困难例题: 解方程 x² - 5x + 6 = 0。答案: x₁=2, x₂=3", out.(*tutor.GiveExampleOutput).Example)

	out, err = invoke(t, list, "give_example", `{"concept":"相似三角形"}`)
	require.NoError(t, err)
	assert.Equal(t, "关于'相似三角形'的中等例题: 请解决相关问题。", out.(*tutor.GiveExampleOutput).Example)

	params := list[0].Parameters()
	assert.Equal(t, []any{"concept"}, params["required"])
}

func TestTestingTools(t *testing.T) {
	t.Parallel()
	list := tutor.TestingTools()

	out, err := invoke(t, list, "generate_question", `{"topic":"一元二次方程","count":2}`)
	require.NoError(t, err)
	assert.Equal(t, "1. 解方程: x² - 7x + 12 = 0\n2. 解方程: 2x² - 5x + 2 = 0", out.(*tutor.GenerateQuestionOutput).Questions)

	out, err = invoke(t, list, "generate_question", `{"topic":"勾股定理","count":10}`)
	require.NoError(t, err)
	assert.Contains(t, out.(*tutor.GenerateQuestionOutput).Questions, "3. 判断以下哪组数")

	out, err = invoke(t, list, "generate_question", `{"topic":"概率","count":3}`)
	require.NoError(t, err)
	assert.Equal(t, "1. 关于概率的练习题，请解答相关问题。", out.(*tutor.GenerateQuestionOutput).Questions)

	_, err = invoke(t, list, "generate_question", `{"topic":"概率","count":11}`)
	assert.True(t, errors.Is(err, tools.ErrFailedUnmarshalInput))

	out, err = invoke(t, list, "evaluate_answer", `{"question":"3+4","user_answer":" 7 ","correct_answer":"7"}`)
	require.NoError(t, err)
	assert.Equal(t, &tutor.EvaluateAnswerOutput{Correct: true, Comment: "正确。很好!"}, out)

	out, err = invoke(t, list, "evaluate_answer", `{"question":"3+4","user_answer":"8","correct_answer":"7"}`)
	require.NoError(t, err)
	assert.Equal(t, &tutor.EvaluateAnswerOutput{Comment: "错误。正确答案是: 7"}, out)
}

func TestSecretaryTools(t *testing.T) {
	t.Parallel()
	list := tutor.SecretaryTools()

	out, err := invoke(t, list, "create_study_plan", `{"subject":"数学","topics":["勾股定理","一元二次方程","相似三角形"],"days":2}`)
	require.NoError(t, err)
	assert.Equal(t, "数学学习计划 (2天):\n第1天: 勾股定理\n第2天: 一元二次方程\n", out.(*tutor.StudyPlanOutput).Plan)

	out, err = invoke(t, list, "create_study_plan", `{"subject":"数学","topics":["勾股定理"],"days":3}`)
	require.NoError(t, err)
	assert.Equal(t, "数学学习计划 (3天):\n第1天: 勾股定理\n", out.(*tutor.StudyPlanOutput).Plan)

	_, err = invoke(t, list, "create_study_plan", `{"subject":"数学","topics":["x"],"days":0}`)
	assert.True(t, errors.Is(err, tools.ErrFailedUnmarshalInput))
}

func TestParentTools(t *testing.T) {
	t.Parallel()
	out, err := invoke(t, tutor.ParentTools(), "generate_report",
		`{"student_name":"小明","subject":"数学","topics":["勾股定理","一元二次方程"],"performance":"掌握良好"}`)
	require.NoError(t, err)
	assert.Equal(t, "学生 小明 的 数学 学习报告:\n\n"+
		"学习内容:\n- 勾股定理, 一元二次方程\n\n"+
		"学习表现:\n掌握良好\n\n"+
		"建议:\n- 继续保持良好的学习习惯\n- 针对薄弱环节加强练习\n- 定期复习已学知识点",
		out.(*tutor.ReportOutput).Report)
}
