// Package logger provides structured JSON logging for watplan.
//
// Every entry is written as one JSON object per line with a timestamp, level,
// message, optional structured fields and an optional error string. Logs go to
// stderr by default so that command output on stdout stays machine-readable.
//
// Example usage:
//
//	logger.Warn("Skipped lesson node", logger.Fields{
//	    "stage": "extract",
//	    "index": 4,
//	})
//
//	logger.Error("Fetching timetable failed", logger.Fields{"group": "WCY22KC2S0"}, err)
package logger
