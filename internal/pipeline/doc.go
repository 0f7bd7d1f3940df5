// Package pipeline fans a worklist out across accelerator devices and
// collects token sequences back into output files.
//
// Each device gets a producer that extracts features from its shard and a
// consumer that drives the device's inference session in batches. Producers
// close their feature channel when the shard is exhausted, consumers exit
// when the channel drains, and the shared result channel closes once every
// consumer has returned. The sink therefore terminates by channel closure
// rather than by counting items, so partial final batches can never strand
// the run.
//
// Extraction and inference failures abort the run and cancel the other
// workers; a worker death is an error from Run, never a silent hang. Only
// artifact persistence failures are tolerated per item: the sink records the
// item as failed in the manifest and keeps draining.
package pipeline
