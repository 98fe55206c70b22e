// Package llm defines the boundary between the chaos loop and its
// decision-making language model.
//
// The orchestrator never talks to a model provider directly. It builds a
// CompletionRequest, hands it to a Client, and receives plain text back.
// Requests carry a bounded token budget and a fixed sampling temperature
// so that decision behavior stays reproducible enough for testing; tests
// substitute a mock Client rather than invoking a real model.
package llm
