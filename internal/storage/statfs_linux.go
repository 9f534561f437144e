//go:build linux

package storage

import (
	"strconv"
	"syscall"
)

// Superblock magic numbers of the network filesystems, from statfs(2).
var remoteMagic = map[uint32]string{
	0x6969:     "nfs",
	0x517b:     "smbfs",
	0xff534d42: "cifs",
	0xfe534d42: "smb2",
}

func filesystemName(path string) (string, error) {
	var st syscall.Statfs_t
	if err := syscall.Statfs(path, &st); err != nil {
		return "", err
	}
	magic := uint32(st.Type)
	if name, ok := remoteMagic[magic]; ok {
		return name, nil
	}
	return "0x" + strconv.FormatUint(uint64(magic), 16), nil
}
