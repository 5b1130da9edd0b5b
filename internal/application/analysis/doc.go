// Package analysis implements the feature endpoints of the StratIQ AI service.
//
// The service answers four feature requests:
//   - Strategy analysis, which echoes the submitted strategy payload
//   - Recall insights (top performers and trading patterns)
//   - Portfolio risk calculation
//   - Market sentiment
//
// None of them compute anything yet: each returns a fixed acknowledgment
// payload. The service holds no state between calls.
package analysis
