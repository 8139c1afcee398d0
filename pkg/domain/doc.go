// Package domain contains the core entities of the medication safety checker:
// barcodes, health profiles, product records, safety verdicts and the scan
// states the pipeline moves through. The types are free of infrastructure
// concerns so they can be shared across packages.
package domain
