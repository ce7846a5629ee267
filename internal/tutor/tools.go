package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/values"
	"github.com/lvchiyang/aiteacher/tools"
)

// ExplainConceptInput is the argument of explain_concept.
type ExplainConceptInput struct {
	Concept    string `json:"concept" validate:"required" jsonschema:"description=需要解释的数学概念，如'勾股定理'、'一元二次方程'"`
	Difficulty string `json:"difficulty,omitempty" jsonschema:"description=解释难度等级: 初级、中级、高级,enum=初级,enum=中级,enum=高级"`
}

// ExplainConceptOutput is the result of explain_concept.
type ExplainConceptOutput struct {
	Explanation string `json:"explanation"`
}

// GiveExampleInput is the argument of give_example.
type GiveExampleInput struct {
	Concept    string `json:"concept" validate:"required" jsonschema:"description=相关数学概念"`
	Difficulty string `json:"difficulty,omitempty" jsonschema:"description=题目难度等级: 简单、中等、困难,enum=简单,enum=中等,enum=困难"`
}

// GiveExampleOutput is the result of give_example.
type GiveExampleOutput struct {
	Example string `json:"example"`
}

// GenerateQuestionInput is the argument of generate_question.
type GenerateQuestionInput struct {
	Topic string `json:"topic" validate:"required" jsonschema:"description=题目主题"`
	Count int    `json:"count" validate:"min=1,max=10" jsonschema:"description=题目数量,minimum=1,maximum=10"`
}

// GenerateQuestionOutput is the result of generate_question.
type GenerateQuestionOutput struct {
	Questions string `json:"questions"`
}

// EvaluateAnswerInput is the argument of evaluate_answer.
type EvaluateAnswerInput struct {
	Question      string `json:"question" validate:"required" jsonschema:"description=题目内容"`
	UserAnswer    string `json:"user_answer" validate:"required" jsonschema:"description=用户答案"`
	CorrectAnswer string `json:"correct_answer" validate:"required" jsonschema:"description=正确答案"`
}

// EvaluateAnswerOutput is the result of evaluate_answer.
type EvaluateAnswerOutput struct {
	Correct bool   `json:"correct"`
	Comment string `json:"comment"`
}

// StudyPlanInput is the argument of create_study_plan.
type StudyPlanInput struct {
	Subject string   `json:"subject" validate:"required" jsonschema:"description=学科"`
	Topics  []string `json:"topics" validate:"required,min=1" jsonschema:"description=要学习的知识点列表"`
	Days    int      `json:"days" validate:"min=1" jsonschema:"description=计划天数,minimum=1"`
}

// StudyPlanOutput is the result of create_study_plan.
type StudyPlanOutput struct {
	Plan string `json:"plan"`
}

// ReportInput is the argument of generate_report.
type ReportInput struct {
	StudentName string   `json:"student_name" validate:"required" jsonschema:"description=学生姓名"`
	Subject     string   `json:"subject" validate:"required" jsonschema:"description=学科"`
	Topics      []string `json:"topics" validate:"required" jsonschema:"description=学习知识点列表"`
	Performance string   `json:"performance" validate:"required" jsonschema:"description=学习表现描述"`
}

// ReportOutput is the result of generate_report.
type ReportOutput struct {
	Report string `json:"report"`
}

var explanations = map[string]string{
	"勾股定理":   "勾股定理(%s): 直角三角形两条直角边的平方和等于斜边的平方。公式为: a² + b² = c²",
	"一元二次方程": "一元二次方程(%s): 只含有一个未知数，并且未知数的最高次数是二次的整式方程。一般形式为: ax² + bx + c = 0 (a≠0)",
	"相似三角形":  "相似三角形(%s): 两个三角形对应角相等，对应边成比例",
}

var examples = map[string]string{
	"勾股定理":   "%s例题: 已知直角三角形的两条直角边分别为3cm和4cm，求斜边长度? 答案: 5cm",
	"一元二次方程": "%s例题: 解方程 x² - 5x + 6 = 0。答案: x₁=2, x₂=3",
}

var questions = map[string][]string{
	"勾股定理": {
		"已知直角三角形的两条直角边分别为6cm和8cm，求斜边长度?",
		"直角三角形的斜边长为10cm，一条直角边长为6cm，求另一条直角边长?",
		"判断以下哪组数能构成直角三角形的三边长: A. 3,4,5  B. 1,2,3  C. 5,12,13",
	},
	"一元二次方程": {
		"解方程: x² - 7x + 12 = 0",
		"解方程: 2x² - 5x + 2 = 0",
		"已知一元二次方程x² - 3x + k = 0有一个根为1，求k的值",
	},
}

// ExplainConcept explains a math concept at the difficulty, 中级 by default.
func ExplainConcept(_ context.Context, in *ExplainConceptInput) (*ExplainConceptOutput, error) {
	difficulty := values.StringsCoalesce(in.Difficulty, "中级")
	text := fmt.Sprintf("关于'%s'的%s解释: 这是一个重要的数学概念。", in.Concept, difficulty)
	if format, ok := explanations[in.Concept]; ok {
		text = fmt.Sprintf(format, difficulty)
	}
	return &ExplainConceptOutput{Explanation: text}, nil
}

// GiveExample returns an example problem at the difficulty, 中等 by default.
func GiveExample(_ context.Context, in *GiveExampleInput) (*GiveExampleOutput, error) {
	difficulty := values.StringsCoalesce(in.Difficulty, "中等")
	text := fmt.Sprintf("关于'%s'的%s例题: 请解决相关问题。", in.Concept, difficulty)
	if format, ok := examples[in.Concept]; ok {
		text = fmt.Sprintf(format, difficulty)
	}
	return &GiveExampleOutput{Example: text}, nil
}

// GenerateQuestion returns up to Count numbered questions on the topic.
func GenerateQuestion(_ context.Context, in *GenerateQuestionInput) (*GenerateQuestionOutput, error) {
	list, ok := questions[in.Topic]
	if !ok {
		list = []string{fmt.Sprintf("关于%s的练习题，请解答相关问题。", in.Topic)}
	}
	list = list[:min(in.Count, len(list))]

	lines := make([]string, len(list))
	for i, q := range list {
		lines[i] = fmt.Sprintf("%d. %s", i+1, q)
	}
	return &GenerateQuestionOutput{Questions: strings.Join(lines, "\n")}, nil
}

// EvaluateAnswer compares the answers ignoring case and surrounding spaces.
func EvaluateAnswer(_ context.Context, in *EvaluateAnswerInput) (*EvaluateAnswerOutput, error) {
	correct := strings.EqualFold(strings.TrimSpace(in.UserAnswer), strings.TrimSpace(in.CorrectAnswer))
	if correct {
		return &EvaluateAnswerOutput{Correct: true, Comment: "正确。很好!"}, nil
	}
	return &EvaluateAnswerOutput{Comment: "错误。正确答案是: " + in.CorrectAnswer}, nil
}

// CreateStudyPlan spreads the topics evenly over the days.
func CreateStudyPlan(_ context.Context, in *StudyPlanInput) (*StudyPlanOutput, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s学习计划 (%d天):\n", in.Subject, in.Days)

	perDay := max(1, len(in.Topics)/in.Days)
	for day := range in.Days {
		start := day * perDay
		if start >= len(in.Topics) {
			break
		}
		end := min(start+perDay, len(in.Topics))
		fmt.Fprintf(&sb, "第%d天: %s\n", day+1, strings.Join(in.Topics[start:end], ", "))
	}
	return &StudyPlanOutput{Plan: sb.String()}, nil
}

// GenerateReport returns the learning report for the parents.
func GenerateReport(_ context.Context, in *ReportInput) (*ReportOutput, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "学生 %s 的 %s 学习报告:\n\n", in.StudentName, in.Subject)
	sb.WriteString("学习内容:\n")
	fmt.Fprintf(&sb, "- %s\n\n", strings.Join(in.Topics, ", "))
	sb.WriteString("学习表现:\n")
	sb.WriteString(in.Performance + "\n\n")
	sb.WriteString("建议:\n")
	sb.WriteString("- 继续保持良好的学习习惯\n")
	sb.WriteString("- 针对薄弱环节加强练习\n")
	sb.WriteString("- 定期复习已学知识点")
	return &ReportOutput{Report: sb.String()}, nil
}

func must(t *tools.Tool, err error) *tools.Tool {
	if err != nil {
		panic(errors.WithStack(err))
	}
	return t
}

// TeachingTools returns the tools of the teaching agent.
func TeachingTools() []*tools.Tool {
	return []*tools.Tool{
		must(tools.NewTyped("explain_concept", "解释数学概念", ExplainConcept)),
		must(tools.NewTyped("give_example", "给出数学例题", GiveExample)),
	}
}

// TestingTools returns the tools of the testing agent.
func TestingTools() []*tools.Tool {
	return []*tools.Tool{
		must(tools.NewTyped("generate_question", "生成数学练习题", GenerateQuestion)),
		must(tools.NewTyped("evaluate_answer", "评判用户答案的正确性", EvaluateAnswer)),
	}
}

// SecretaryTools returns the tools of the secretary agent.
func SecretaryTools() []*tools.Tool {
	return []*tools.Tool{
		must(tools.NewTyped("create_study_plan", "制定学习计划", CreateStudyPlan)),
	}
}

// ParentTools returns the tools of the parent agent.
func ParentTools() []*tools.Tool {
	return []*tools.Tool{
		must(tools.NewTyped("generate_report", "生成学习报告", GenerateReport)),
	}
}
