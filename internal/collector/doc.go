// Package collector drives the fetch → normalize → write cycle.
//
// One cycle runs to completion before the next begins: the three inverter
// documents are fetched (concurrently, each with its own retry budget),
// normalized into a sample, written to InfluxDB, optionally mirrored to MQTT
// and the cycle journal, and then the loop sleeps whatever remains of the
// configured interval. A cycle that overruns the interval rolls straight
// into the next one.
//
// Transient failures never stop the loop. A fetch failure degrades the
// sample; a sink failure drops the cycle's point; both are logged and the
// next cycle proceeds independently.
package collector
