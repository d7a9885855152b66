package rag

// User-facing placeholder messages for turns where no usable context was
// produced. They are returned verbatim as the answer, without a model call.
const (
	documentsNotFoundMessage = "I couldn't find any relevant information in the available documents to answer your question."
	webNotFoundMessage       = "I couldn't find anything relevant on the web for your question."
	webUnavailableMessage    = "Web search is not available right now, so I couldn't look this up online."
	generationFailedMessage  = "I found relevant information but ran into a problem while writing the answer. Please try again."
)

const condensePromptTemplate = `Given the conversation below and a follow-up question, rewrite the follow-up as a single standalone question that can be understood without the conversation. Keep every name, identifier and constraint the follow-up refers to. If the follow-up is already standalone, return it unchanged.

Conversation:
%s
Follow-up question: %s

Standalone question:`

const routePromptTemplate = `You are a routing agent. Pick the single best tool to answer the user's question.

Available tools:
- document_search: Searches the user's uploaded documents and the shared knowledge base. Use this for questions about internal projects, reports, manuals or any uploaded content.
- web_search: Searches the public internet. Use this for current events, public facts or anything unlikely to be in uploaded documents.

User question: %s

Respond with exactly one tool name: document_search or web_search.`

const answerPromptTemplate = `You are a helpful assistant. Answer the user's question using only the numbered sources below.

Rules:
- Base every statement on the sources. Do not use outside knowledge.
- Cite the sources you use with bracketed numbers, for example [1] or [2].
- If the sources do not contain the answer, say so instead of guessing.

%s
Question: %s

Answer:`

const streamPromptTemplate = `You are a helpful assistant. Use the following context to answer the user's question. If the context does not contain the answer, say that you could not find the information in the documents.

Context:
%s

Question: %s

Answer:`
