package openai

import "fmt"

const condensePromptTemplate = `Your goal is to summarize the text into a single concise sentence with as much context as possible.

%s`

const summaryPromptTemplate = `Summarize the following text into a single short concise summary with as much context as possible.

%s`

// buildCondensePrompt formats the prompt for condensing one chunk group.
func buildCondensePrompt(content string) string {
	return fmt.Sprintf(condensePromptTemplate, content)
}

// buildSummaryPrompt formats the prompt for the document-level summary.
func buildSummaryPrompt(content string) string {
	return fmt.Sprintf(summaryPromptTemplate, content)
}
