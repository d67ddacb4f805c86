// Package langchain adapts langchaingo's OpenAI-compatible client to the
// LLM and embedding ports. It serves gateways such as OpenRouter, which
// speak the OpenAI wire format at a different base URL.
package langchain
