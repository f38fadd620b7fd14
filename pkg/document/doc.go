/*
Package document orchestrates access to persisted canvas documents.

It serializes writes per canvas ID with reference-counted local locks and,
optionally, a distributed lock across replicas. Every committed change is
published as a GraphDiff so that remote renderers can apply partial updates.
*/
package document
