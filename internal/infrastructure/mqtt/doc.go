// Package mqtt provides the collector's optional live-sample publisher.
//
// When enabled, each polling cycle's normalized sample is published as
// retained JSON to <topic_prefix>/sample, so dashboards and home-automation
// consumers can follow the inverter in real time without querying InfluxDB.
// An online/offline status is kept on <topic_prefix>/status, with a Last Will
// covering unexpected disconnects.
//
// Publish failures never affect the cycle: they are logged by the caller and
// the point still goes to InfluxDB.
package mqtt
