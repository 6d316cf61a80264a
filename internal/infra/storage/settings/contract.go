package settings

import "github.com/m04kA/SMC-TableBooking/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
