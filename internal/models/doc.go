// Package models lists the OpenAI chat models available to an API key,
// so that a model for the openai fallback translator can be chosen.
package models
