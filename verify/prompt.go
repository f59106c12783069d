package verify

import (
	"fmt"
	"strings"

	"github.com/tsawler/takeoff/scale"
)

const systemPrompt = "You are an expert at reading architectural drawing title blocks. " +
	"You will receive text extracted from the title-block region of an " +
	"architectural floor plan, along with any candidate scale strings " +
	"that were detected by a deterministic parser.\n\n" +
	"Your task is to identify the drawing scale notation and compute " +
	"the scale factor.\n\n" +
	"Output ONLY a JSON object matching this schema exactly:\n\n" +
	"```json\n" +
	"{\n" +
	"  \"notation\": \"<scale notation as written, e.g. 1/4\\\"=1'-0\\\">\",\n" +
	"  \"paper_inches\": <float, drawing inches>,\n" +
	"  \"real_inches\": <float, real-world inches>,\n" +
	"  \"scale_factor\": <float, real_inches / paper_inches>,\n" +
	"  \"confidence\": \"<HIGH|MEDIUM|LOW>\"\n" +
	"}\n" +
	"```\n\n" +
	"IMPORTANT:\n" +
	"- Output ONLY the JSON block wrapped in ```json ... ``` fences.\n" +
	"- Do not include reasoning text before or after the JSON.\n" +
	"- If you cannot determine the scale, use confidence LOW and scale_factor 0.\n"

// BuildPrompt lists the title block text, the candidate scale strings and
// the deterministic result for the model.
func BuildPrompt(in Input) string {
	var b strings.Builder

	b.WriteString("## Title Block Region Text\n\n")
	if texts := scale.TitleBlockText(in.Blocks, in.PageHeight); len(texts) > 0 {
		for _, t := range texts {
			fmt.Fprintf(&b, "- %s\n", t)
		}
	} else {
		b.WriteString("(no text found in title block region)\n")
	}

	if candidates := scale.Candidates(in.Blocks); len(candidates) > 0 {
		b.WriteString("\n## Candidate Scale Strings\n\n")
		for _, c := range candidates {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}

	b.WriteString("\n## Detected Scale (deterministic parser)\n\n")
	if d := in.Detected; d != nil {
		fmt.Fprintf(&b, "- Notation: %s\n", d.Notation)
		fmt.Fprintf(&b, "- Scale factor: %g\n", d.Factor)
		fmt.Fprintf(&b, "- Paper inches: %g\n", d.DrawingUnits)
		fmt.Fprintf(&b, "- Real inches: %g\n", d.RealUnits)
		fmt.Fprintf(&b, "- Confidence: %s\n", d.Confidence)
	} else {
		b.WriteString("- No scale detected by deterministic parser\n")
	}

	return b.String()
}
