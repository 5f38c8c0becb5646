// Package mount exposes a natsobj.Store as a read-only FUSE filesystem.
// Object contents are served through streamio streams over store handles.
package mount

import (
	"context"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/inovacc/streamio"
	"github.com/inovacc/streamio/natsobj"
)

var (
	_ fs.NodeLookuper  = (*storeRoot)(nil)
	_ fs.NodeReaddirer = (*storeRoot)(nil)
	_ fs.NodeGetattrer = (*objectNode)(nil)
	_ fs.NodeOpener    = (*objectNode)(nil)
	_ fs.FileReader    = (*objectHandle)(nil)
)

type storeRoot struct {
	fs.Inode
	store *natsobj.Store
}

type objectNode struct {
	fs.Inode
	store *natsobj.Store
	name  string
}

// objectHandle holds the fully materialized contents of one object for the
// duration of an open.
type objectHandle struct {
	data []byte
}

// Mount mounts the store at mountPoint and blocks until the filesystem is
// unmounted.
func Mount(mountPoint string, store *natsobj.Store) error {
	root := &storeRoot{store: store}
	server, err := fs.Mount(mountPoint, root, &fs.Options{
		MountOptions: fuse.MountOptions{
			AllowOther: true,
			Name:       "streamio",
		},
	})
	if err != nil {
		return err
	}
	server.Wait()
	return nil
}

func (r *storeRoot) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	info, err := r.store.Stat(name)
	if err != nil {
		return nil, syscall.ENOENT
	}

	child := &objectNode{
		store: r.store,
		name:  name,
	}

	out.Size = uint64(info.Size())
	out.Mode = fuse.S_IFREG | 0444
	return r.NewPersistentInode(ctx, child, fs.StableAttr{Mode: fuse.S_IFREG}), fs.OK
}

func (r *storeRoot) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	infos, err := r.store.List()
	if err != nil {
		return nil, syscall.EIO
	}

	var entries []fuse.DirEntry
	for _, info := range infos {
		entries = append(entries, fuse.DirEntry{
			Name: info.Name(),
			Mode: fuse.S_IFREG,
		})
	}
	return fs.NewListDirStream(entries), fs.OK
}

func (n *objectNode) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	info, err := n.store.Stat(n.name)
	if err != nil {
		return syscall.ENOENT
	}

	out.Size = uint64(info.Size())
	out.Mode = fuse.S_IFREG | 0444
	mtime := info.ModTime()
	out.SetTimes(nil, &mtime, nil)
	return fs.OK
}

func (n *objectNode) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	handle, err := n.store.Open(n.name, "r")
	if err != nil {
		return nil, 0, syscall.ENOENT
	}

	stream, err := streamio.New(handle)
	if err != nil {
		return nil, 0, syscall.EIO
	}
	defer func() {
		_ = stream.Close()
	}()

	contents, err := stream.Contents()
	if err != nil {
		return nil, 0, syscall.EIO
	}
	return &objectHandle{data: contents}, fuse.FOPEN_KEEP_CACHE, fs.OK
}

func (h *objectHandle) Read(ctx context.Context, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	if off >= int64(len(h.data)) {
		return fuse.ReadResultData(nil), fs.OK
	}

	end := off + int64(len(dest))
	if end > int64(len(h.data)) {
		end = int64(len(h.data))
	}
	return fuse.ReadResultData(h.data[off:end]), fs.OK
}
