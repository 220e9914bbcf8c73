// Package attrsel chooses the subset of attributes of a dataset that is most
// useful for predicting its class.
//
// A selection run pairs an evaluator with a search:
//
//   - subset evaluators (CfsSubsetEval) score whole subsets and are driven
//     by subset searches (BestFirst, GreedyStepwise);
//   - attribute evaluators (InfoGainAttributeEval, CorrelationAttributeEval)
//     score attributes one by one and are driven by Ranker.
//
// Select runs the pair and returns an immutable *Selection that reports
// which attributes were kept and projects feature matrices onto them:
//
//	sel, err := attrsel.Select(ds, attrsel.NewCfsSubsetEval(), attrsel.NewBestFirst())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(sel.SelectedNames())
//	Xr, err := sel.ReduceDimensionality(ds.Features())
package attrsel
