package export

var AvailablePath = availablePath
