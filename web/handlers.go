package web

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/disc_patcher/catalog"
	"github.com/mogaika/disc_patcher/config"
	"github.com/mogaika/disc_patcher/pack"
	"github.com/mogaika/disc_patcher/patches"
	"github.com/mogaika/disc_patcher/resource"
	"github.com/mogaika/disc_patcher/status"
	"github.com/mogaika/disc_patcher/utils"
	"github.com/mogaika/disc_patcher/vfs"
	"github.com/mogaika/disc_patcher/webutils"
)

type ResourceInfo struct {
	Key        resource.Key
	Name       string `json:",omitempty"`
	Compressed bool
	Decodable  bool
}

type ArchiveInfo struct {
	Name      string
	Named     []pack.NamedResource
	Resources []ResourceInfo
}

func HandlerAjaxFiles(w http.ResponseWriter, r *http.Request) {
	if files, err := vfs.Walk(ServerDirectory); err != nil {
		webutils.WriteError(w, err)
	} else {
		webutils.WriteJson(w, files)
	}
}

func HandlerAjaxCatalog(w http.ResponseWriter, r *http.Request) {
	if cat, err := catalog.Load(); err != nil {
		webutils.WriteError(w, err)
	} else {
		webutils.WriteJson(w, cat)
	}
}

func getArchive(file string) (*pack.Archive, error) {
	inst, err := pack.GetInstanceHandler(ServerDirectory, file)
	if err != nil {
		log.Printf("[web] Error getting file from pack: %v", err)
		return nil, err
	}
	a, ok := inst.(*pack.Archive)
	if !ok {
		return nil, errors.Errorf("File %s is not archive", file)
	}
	return a, nil
}

// getResource resolves {file}/{type}/{id} route vars, id is hex
func getResource(r *http.Request) (*resource.Resource, error) {
	vars := mux.Vars(r)
	a, err := getArchive(vars["file"])
	if err != nil {
		return nil, err
	}
	if len(vars["type"]) != 4 {
		return nil, errors.Errorf("Type '%s' is not fourcc", vars["type"])
	}
	id, err := strconv.ParseUint(vars["id"], 16, 32)
	if err != nil {
		return nil, errors.Errorf("Id '%s' is not hex integer", vars["id"])
	}
	key := resource.Key{Id: uint32(id), Type: resource.NewFourCC(vars["type"])}
	res, ok := a.Find(key)
	if !ok {
		return nil, errors.Errorf("Cannot find %s in %s", key, a.Name)
	}
	return res, nil
}

func HandlerAjaxPackFile(w http.ResponseWriter, r *http.Request) {
	a, err := getArchive(mux.Vars(r)["file"])
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	info := &ArchiveInfo{
		Name:      a.Name,
		Named:     a.Named,
		Resources: make([]ResourceInfo, len(a.Resources)),
	}
	for i, res := range a.Resources {
		info.Resources[i] = ResourceInfo{
			Key:        res.Key(),
			Name:       res.Name,
			Compressed: res.Compressed,
			Decodable:  resource.HasHandler(res.Type),
		}
	}
	webutils.WriteJson(w, info)
}

func HandlerAjaxPackResource(w http.ResponseWriter, r *http.Request) {
	type Result struct {
		Info ResourceInfo
		Data interface{} `json:",omitempty"`
		Deps []resource.Key
	}

	res, err := getResource(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	result := &Result{Info: ResourceInfo{
		Key:        res.Key(),
		Name:       res.Name,
		Compressed: res.Compressed,
		Decodable:  resource.HasHandler(res.Type),
	}}
	if result.Info.Decodable {
		rec, err := res.Decode()
		if err != nil {
			webutils.WriteError(w, err)
			return
		}
		result.Data = rec
		result.Deps = rec.Dependencies()
	}
	webutils.WriteJson(w, result)
}

func HandlerDumpPackResource(w http.ResponseWriter, r *http.Request) {
	res, err := getResource(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	data, err := res.Bytes()
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, bytes.NewReader(data), fmt.Sprintf("%08X.%s", res.Id, res.Type))
}

func HandlerSpewPackResource(w http.ResponseWriter, r *http.Request) {
	res, err := getResource(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	if !resource.HasHandler(res.Type) {
		data, err := res.Bytes()
		if err != nil {
			webutils.WriteError(w, err)
			return
		}
		webutils.WriteText(w, utils.DumpToOneLineString(data))
		return
	}
	rec, err := res.Decode()
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteText(w, utils.SDump(rec))
}

func HandlerDumpFile(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	data, err := vfs.ReadFile(ServerDirectory, file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, bytes.NewReader(data), file)
}

// HandlerActionDryRun patches served disc into memory and lists produced files.
// Body is patch config in json form.
func HandlerActionDryRun(w http.ResponseWriter, r *http.Request) {
	cfg := config.Default()
	if err := webutils.ReadJson(r, cfg); err != nil {
		webutils.WriteError(w, err)
		return
	}
	if err := cfg.Validate(); err != nil {
		webutils.WriteError(w, err)
		return
	}

	out := vfs.NewMemoryDirectory("dryrun")
	if err := patches.Patch(cfg, ServerDirectory, out); err != nil {
		status.Error("Dry run failed: %v", err)
		webutils.WriteError(w, err)
		return
	}
	files, err := vfs.Walk(out)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	status.Info("Dry run produced %d files", len(files))
	webutils.WriteJson(w, files)
}

func HandlerStatusSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] Websocket upgrade failed: %v", err)
		return
	}
	status.NewClient(conn)
}
