package openai

import (
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
)

const planToolName = "create_learning_plan"

const planSystemPrompt = `You are an expert academic curriculum analyzer and exam preparation specialist.

Parse university syllabi and create structured, exam-oriented learning plans.

VIDEO RULES (STRICT):
If hasVideo = true, you MUST also provide:
- videoSearchQuery
- videoPlatform

Allowed videoPlatform values:
- youtube
- nptel
- codeacademy
- none

Rules:
- Provide a videoSearchQuery suitable for YouTube/NPTEL search
- Prefer exam-oriented lecture content
- If no reliable video exists, set hasVideo=false, videoPlatform="none" and videoSearchQuery=""

Practice rules:
- Numericals, derivations, coding: hasPractice=true
- Pure theory: hasPractice=false (unless numericals exist)

Topic ids must be unique across the whole plan.
Return the plan only through the create_learning_plan function.`

func planUserPrompt(req PlanRequest) string {
	university := strings.TrimSpace(req.UniversityName)
	if university == "" {
		university = "Not specified"
	}
	return fmt.Sprintf(`Parse the syllabus and generate a learning plan.

IMPORTANT:
- Videos must be PER TOPIC
- Use videoSearchQuery (not channels, not URLs)
- Be conservative and realistic

Subject: %s
University: %s

SYLLABUS:
%s`, strings.TrimSpace(req.SubjectName), university, strings.TrimSpace(req.SyllabusText))
}

func planSchema() jsonschema.Definition {
	str := jsonschema.Definition{Type: jsonschema.String}
	num := jsonschema.Definition{Type: jsonschema.Number}
	boolean := jsonschema.Definition{Type: jsonschema.Boolean}

	topic := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"id":               str,
			"name":             str,
			"duration":         str,
			"importance":       {Type: jsonschema.String, Enum: []string{"high", "medium", "low"}},
			"hasVideo":         boolean,
			"videoPlatform":    {Type: jsonschema.String, Enum: []string{"youtube", "nptel", "codeacademy", "none"}},
			"videoSearchQuery": str,
			"hasPractice":      boolean,
		},
		Required:             []string{"id", "name", "duration", "importance", "hasVideo", "videoPlatform", "videoSearchQuery", "hasPractice"},
		AdditionalProperties: false,
	}
	unit := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"id":             str,
			"name":           str,
			"estimatedHours": num,
			"topics":         {Type: jsonschema.Array, Items: &topic},
		},
		Required:             []string{"id", "name", "estimatedHours", "topics"},
		AdditionalProperties: false,
	}
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"subjectName":         str,
			"universityName":      str,
			"totalEstimatedHours": num,
			"units":               {Type: jsonschema.Array, Items: &unit},
		},
		Required:             []string{"subjectName", "universityName", "totalEstimatedHours", "units"},
		AdditionalProperties: false,
	}
}
