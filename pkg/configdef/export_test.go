package configdef

var HasDupGroupNames = hasDupGroupNames
