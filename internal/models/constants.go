package models

const (
	ThinkTag         = `(?s)<think>.*?</think>`
	CodeFence        = "(?s)^```(?:json)?\\s*(.*?)\\s*```$"
	ContextSeparator = "\n\n---\n\n"
)

var (
	AnswerPromptTemplate = `You are a helpful assistant for the TIPQIC project. Answer using three stages:

1. Use ONLY the provided context below. Cite sources. If info is missing, state: "The provided context does not include information about <topic>." else say "The provided context includes information about <topic>."
2. If and only if context is insufficient, use your internal knowledge otherwise skip this step.
3. If context and internal knowledge are also insufficient, say so plainly instead of guessing.

Context:
%s

Question: %s

Provide your answer clearly, separating information from context and internal knowledge.
`

	ClassifyPromptTemplate = `Classify this user query as either "normal" (for conversational response) or "task" (for actionable tasks).

Query: %s

Rules:
- Use "task" if the query asks for improvements, steps, actions, plans, or how to do something
- Use "normal" for general questions, explanations, or information requests
- Keywords like "improve", "enhance", "steps", "how to", "action plan" suggest "task"
- Keywords like "what is", "explain", "describe", "tell me about" suggest "normal"

Answer with exactly one word: normal or task.
`

	TasksPromptTemplate = `Based on the provided context, create a structured list of actionable tasks to address the user's request.

Context from documents:
%s

User Request: %s

Instructions:
- Generate specific, actionable tasks based on the TIPQIC context
- Make tasks clear and implementable
- Focus on practical steps that can be taken
- Provide 5-10 relevant tasks

Respond with a JSON object of the form {"tasks": ["...", "..."]} and nothing else.
`
)
