package sysfs

// Package sysfs provides safe access helpers for the system files elev
// depends on.
//
// Fixed contract:
//   /etc/elev.conf   policy file (root-owned, 0600 or stricter)
//   /etc/passwd      user database
//   /etc/shadow      password hashes
//   /etc/group       group database
//   /var/lib/elev    credential-cache directory (root-owned, 0700)
//
// This package focuses on safe reads, atomic replacement writes, and
// ownership/mode inspection. Every write goes through a temp file and
// rename so a concurrent reader never sees a partial record.
