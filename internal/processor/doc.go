// Package processor contains the core logic for enriching Hebrew words.
// It wires the page clients, site adapters and fetchers from the settings,
// builds one record per word, and hands the table to an exporter. This
// package is the coordinator between all other components.
package processor
