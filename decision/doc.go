// Package decision validates reasoning backend verdicts and shapes them into
// match decisions.
//
// The Explainer hands a bounded context to the reasoner and treats the reply
// as untrusted output: verdicts for candidates outside the context are
// dropped, skill claims the candidate cannot support are demoted to missing,
// and scores are clamped to [0, 1]. Every correction becomes a warning on the
// decision so callers can see how much the backend had to be reined in.
package decision
