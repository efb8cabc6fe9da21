// Package classify derives the deterministic fields written for every LMS item:
// its type label, its module label, a cleaned display name, the submission status,
// the grade string and the closed flag.
//
// All functions are pure. Rule order is part of the contract: the first matching
// type rule wins, and chapter numbers win over module numbers.
package classify
