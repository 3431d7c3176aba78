package scheduler

// LogMsgScheduleDisabled is logged when a job is registered with a non-positive interval
const LogMsgScheduleDisabled = "Job interval is not positive, schedule disabled"
