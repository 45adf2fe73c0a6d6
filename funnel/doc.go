// Package funnel implements the staged candidate matching pipeline.
//
// A run narrows the corpus through strictly ordered stages: the availability
// gate, metadata filters, a vector shortlist over skill points, experience
// enrichment, and finally a reasoned decision over a small capped candidate
// set. Each stage only removes candidates, so a run that comes back empty is
// always attributable to exactly one stage; the Outcome names it instead of
// raising an error.
package funnel
