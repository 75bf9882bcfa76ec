package ai

import (
	"fmt"
	"strings"
)

// Greeting opens every new conversation.
const Greeting = "你好，我是你的AI助手，请问有什么能帮助你吗？"

// ChatSystemPrompt steers the plain conversational agent.
const ChatSystemPrompt = "你是一个乐于助人的AI助手，用中文回答问题"

// DefaultSystemPrompt is the user-editable system prompt's initial value.
const DefaultSystemPrompt = "你是一个专业的数据分析助手，请根据用户的数据或问题提供准确、详细的回答"

// Fallback answers shown when an agent fails; never the raw error.
const (
	ChatFallbackAnswer     = "无法处理您的请求，请检查配置或重试。"
	TabularFallbackAnswer  = "系统处理数据时出错"
	DocumentFallbackAnswer = "处理文本内容超时，请尝试上传更小的文件或简化您的问题。"
	IndexFallbackAnswer    = "文本处理失败，请重试或上传较小的文件"
	EmptyAnswer            = "没有获取到回答内容"
)

// BuildTabularPrompt constructs the instruction template for the tabular
// agent: dataset preview, verbatim query, the strict output contract, and the
// bounded tool protocol for intermediate computations.
func BuildTabularPrompt(preview, query string) string {
	var b strings.Builder
	b.WriteString("你是一个数据分析专家，请根据以下数据框和用户问题提供回答。\n")
	b.WriteString("必须严格按照指定格式回复，否则系统将无法解析！\n\n")

	b.WriteString("**数据框预览** (前3行):\n")
	b.WriteString(preview)
	b.WriteString("\n\n**用户问题**: ")
	b.WriteString(query)
	b.WriteString("\n\n")

	b.WriteString("**响应格式要求**:\n")
	b.WriteString("- 纯文本回答 (如果没有可视化需求)\n")
	b.WriteString("- 或JSON格式 (如果需要展示图表):\n")
	b.WriteString(`{
    "answer": "详细文本解释(解释用户问题)和统计结果",
    "charts": [
        {
            "type": "bar/line/pie/scatter/box/hist/area",
            "data": {"columns": ["月份", "销售额"], "data": [["2020-01", 5409855], ["2020-02", 4608455]]},
            "title": "图表标题 (可选)"
        }
    ]
}`)
	b.WriteString("\n\n**重要规则**:\n")
	b.WriteString("1. 如果遇到错误，返回 JSON 格式的错误信息: {\"error\": \"错误描述\", \"answer\": \"错误信息\"}\n")
	b.WriteString("2. 用户没有明确要求图表时，请仅返回文本答案\n")
	b.WriteString("3. 不要返回数据预览内容，用户已经在上传文件时看到数据预览\n")
	b.WriteString("4. 对于需要计算的问题，使用以下格式调用工具:\n")
	b.WriteString("   Thought: 分析问题并确定需要的计算\n")
	b.WriteString("   Action: frame_query\n")
	b.WriteString("   Action Input: <op> <列名> [by <列名>]，其中 op 为 sum/mean/min/max/count\n")
	b.WriteString("5. 不要尝试保存文件，直接返回图表数据\n")
	b.WriteString("6. 确保月份格式统一为 \"YYYY-MM\"（例如 \"2020-03\"）\n")
	b.WriteString("7. 确保每个月份数据唯一，没有重复\n")
	b.WriteString("8. 图表数据中 columns 必须恰好包含 2 个名称，data 中每个数组元素必须恰好包含 2 个值\n")
	b.WriteString("9. 确保JSON格式正确：键名使用双引号，字符串值使用双引号，数值不使用引号\n")

	return b.String()
}

// BuildDocumentPrompt constructs the retrieval-augmented prompt: the retrieved
// context blocks followed by the user's question.
func BuildDocumentPrompt(systemPrompt string, contextBlocks []string, query string) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n请根据以下文档内容回答用户问题。如果文档内容不足以回答，请如实说明。\n\n")

	for i, block := range contextBlocks {
		fmt.Fprintf(&b, "--- 文档片段 %d ---\n", i+1)
		b.WriteString(block)
		b.WriteString("\n\n")
	}

	b.WriteString("--- 用户问题 ---\n")
	b.WriteString(query)
	return b.String()
}
