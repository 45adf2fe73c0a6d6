package openai

import (
	"encoding/json"
	"fmt"

	"github.com/poiesic/profilematch/ai"
)

const decisionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "candidates": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "key": {
            "type": "integer"
          },
          "score": {
            "type": "number",
            "minimum": 0,
            "maximum": 1
          },
          "matched_skills": {
            "type": "array",
            "items": {"type": "string"}
          },
          "missing_skills": {
            "type": "array",
            "items": {"type": "string"}
          },
          "rationale": {
            "type": "string"
          }
        },
        "required": ["key", "score", "matched_skills", "missing_skills", "rationale"],
        "additionalProperties": false
      }
    },
    "confidence": {
      "type": "string",
      "enum": ["low", "medium", "high"]
    }
  },
  "required": ["candidates", "confidence"],
  "additionalProperties": false
}`

const decisionPromptTemplate = `You rank staffing candidates against a list of required skills and return the ranking as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Evaluate ONLY the candidates listed in the input. Include every candidate exactly once, identified by its key.
- The normalized skill lists are the primary signal. Experience snippets are corroborating evidence only.
- matched_skills and missing_skills must be drawn from the required_skills list. Never invent skills.
- The rationale must cite only skills and experience present in the candidate's own entry. Do not speculate
  about skills the candidate might have.
- Score each candidate from 0 (no required skills) to 1 (all required skills with strong supporting experience).
- Order candidates by score, highest first.
- Set confidence to "low" when the skill lists are sparse or ambiguous, "high" when coverage is clear.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input:
{"required_skills":["python","fastapi"],"candidates":[{"key":100012,"skills":["python","fastapi","postgresql"],"domain":"backend","seniority":"senior","experience":["Built payment APIs with FastAPI at Acme"]}]}
Output:
{
  "candidates": [
    {"key":100012,"score":0.95,"matched_skills":["python","fastapi"],"missing_skills":[],"rationale":"Has both required skills; FastAPI use confirmed by payment API work at Acme."}
  ],
  "confidence": "high"
}`

// decisionCandidate is the wire form of one candidate entry in the user prompt.
// Skills come before experience so the model weighs them first.
type decisionCandidate struct {
	Key        int64    `json:"key"`
	Skills     []string `json:"skills"`
	Domain     string   `json:"domain,omitempty"`
	Seniority  string   `json:"seniority,omitempty"`
	Experience []string `json:"experience,omitempty"`
}

type decisionInput struct {
	RequiredSkills []string            `json:"required_skills"`
	Candidates     []decisionCandidate `json:"candidates"`
}

// buildSystemPrompt creates the system prompt with the response schema embedded.
func buildSystemPrompt() string {
	return fmt.Sprintf(decisionPromptTemplate, decisionResponseSchema)
}

// buildDecisionInput serializes the decision context into the user message.
func buildDecisionInput(decisionCtx *ai.DecisionContext) (string, error) {
	input := decisionInput{
		RequiredSkills: decisionCtx.RequiredSkills,
		Candidates:     make([]decisionCandidate, 0, len(decisionCtx.Candidates)),
	}
	for _, c := range decisionCtx.Candidates {
		input.Candidates = append(input.Candidates, decisionCandidate{
			Key:        int64(c.Key),
			Skills:     c.Skills,
			Domain:     c.Domain,
			Seniority:  c.SeniorityBucket,
			Experience: c.Experience,
		})
	}

	data, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
