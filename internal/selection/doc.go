// Package selection picks the candidate tables that make up a document's
// evaluation-criterion table.
//
// Filter keeps candidates whose header names a marker term such as
// "criterion". SelectRun then finds the longest run of consecutive page
// numbers among the kept candidates; that run is treated as the one real
// multi-page table and everything outside it is discarded as an isolated or
// duplicate detection.
package selection
