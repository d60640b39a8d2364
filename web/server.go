package web

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mogaika/disc_patcher/vfs"
)

var ServerDirectory vfs.Directory

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const pakPattern = "{file:.+\\.(?:pak|PAK)}"

func NewRouter(d vfs.Directory) *mux.Router {
	ServerDirectory = d

	r := mux.NewRouter()
	r.HandleFunc("/json/files", HandlerAjaxFiles)
	r.HandleFunc("/json/catalog", HandlerAjaxCatalog)
	r.HandleFunc("/json/pack/"+pakPattern+"/{type}/{id}", HandlerAjaxPackResource)
	r.HandleFunc("/json/pack/"+pakPattern, HandlerAjaxPackFile)
	r.HandleFunc("/dump/pack/"+pakPattern+"/{type}/{id}", HandlerDumpPackResource)
	r.HandleFunc("/spew/pack/"+pakPattern+"/{type}/{id}", HandlerSpewPackResource)
	r.HandleFunc("/dump/file/{file:.+}", HandlerDumpFile)
	r.HandleFunc("/action/dryrun", HandlerActionDryRun).Methods("POST")
	r.HandleFunc("/ws/status", HandlerStatusSocket)
	return r
}

func StartServer(addr string, d vfs.Directory) error {
	r := NewRouter(d)

	h := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(r)
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
