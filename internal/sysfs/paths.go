package sysfs

// Well-known file locations.
const (
	PolicyPath = "/etc/elev.conf"
	PasswdPath = "/etc/passwd"
	ShadowPath = "/etc/shadow"
	GroupPath  = "/etc/group"
	CacheDir   = "/var/lib/elev"
)
